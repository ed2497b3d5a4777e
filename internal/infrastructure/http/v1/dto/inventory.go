package dto

import (
	"breadroute/internal/domain/inventory"
)

// RechargeItemRequest is one product's quantity in a recharge batch.
type RechargeItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Qty       *int64 `json:"qty" binding:"required"`
}

// RechargeRequest commits a batch into the seller's open slot.
type RechargeRequest struct {
	Items []RechargeItemRequest `json:"items" binding:"required,min=1,dive"`
}

// RechargeResponse reports the slot transition.
type RechargeResponse struct {
	PreviousSlot int `json:"previousSlot"`
	NextSlot     int `json:"nextSlot"`
}

// NewRechargeResponse converts the domain result.
func NewRechargeResponse(res *inventory.RechargeResult) RechargeResponse {
	return RechargeResponse{
		PreviousSlot: int(res.PreviousSlot),
		NextSlot:     int(res.NextSlot),
	}
}

// InventoryItemResponse is one row of the seller's inventory screen.
type InventoryItemResponse struct {
	ProductID        string `json:"productId"`
	ProductName      string `json:"productName"`
	Price            int64  `json:"price"`
	SortOrder        int    `json:"sortOrder"`
	CommissionExempt bool   `json:"commissionExempt"`
	Carry            int64  `json:"carry"`
	Recharge1        int64  `json:"r1"`
	Recharge2        int64  `json:"r2"`
	Recharge3        int64  `json:"r3"`
	Available        int64  `json:"available"`
}

// InventoryResponse is the seller's full inventory picture.
type InventoryResponse struct {
	SellerID string                  `json:"sellerId"`
	NextSlot int                     `json:"nextSlot"`
	Items    []InventoryItemResponse `json:"items"`
}

// NewInventoryResponse converts the domain view.
func NewInventoryResponse(view *inventory.View) InventoryResponse {
	items := make([]InventoryItemResponse, 0, len(view.Items))
	for i := range view.Items {
		row := &view.Items[i]
		items = append(items, InventoryItemResponse{
			ProductID:        row.ProductID.String(),
			ProductName:      row.ProductName,
			Price:            row.Price,
			SortOrder:        row.SortOrder,
			CommissionExempt: row.CommissionExempt,
			Carry:            row.Carry,
			Recharge1:        row.Recharge1,
			Recharge2:        row.Recharge2,
			Recharge3:        row.Recharge3,
			Available:        row.Available(),
		})
	}
	return InventoryResponse{
		SellerID: view.SellerID.String(),
		NextSlot: int(view.NextSlot),
		Items:    items,
	}
}

// AdjustItemRequest overwrites one product's state columns.
type AdjustItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Carry     *int64 `json:"carry" binding:"required"`
	Recharge1 *int64 `json:"r1" binding:"required"`
	Recharge2 *int64 `json:"r2" binding:"required"`
	Recharge3 *int64 `json:"r3" binding:"required"`
}

// AdjustRequest is an administrative state correction.
type AdjustRequest struct {
	Items []AdjustItemRequest `json:"items" binding:"required,min=1,dive"`
}
