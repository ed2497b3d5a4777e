package dto

import (
	"time"

	"breadroute/internal/domain/settlement"
)

// SettlementLineRequest declares one product's final and changes counts.
type SettlementLineRequest struct {
	ProductID  string `json:"productId" binding:"required"`
	FinalQty   *int64 `json:"finalQty" binding:"required"`
	ChangesQty *int64 `json:"changesQty" binding:"required"`
}

// SettlementRequest commits a settlement for a seller. Lines must cover
// every product the seller has state for.
type SettlementRequest struct {
	CommissionPercent *int                    `json:"commissionPercent" binding:"required"`
	Lines             []SettlementLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// InvoiceResponse holds the invoice aggregates.
type InvoiceResponse struct {
	ID                string    `json:"id"`
	Number            int64     `json:"number"`
	SellerID          string    `json:"sellerId"`
	IssuedAt          time.Time `json:"issuedAt"`
	CommissionPercent int       `json:"commissionPercent"`
	Subtotal          int64     `json:"subtotal"`
	ExemptTotal       int64     `json:"exemptTotal"`
	ChangesTotal      int64     `json:"changesTotal"`
	CommissionBase    int64     `json:"commissionBase"`
	CommissionValue   int64     `json:"commissionValue"`
	PayableTotal      int64     `json:"payableTotal"`
}

// NewInvoiceResponse converts the domain invoice.
func NewInvoiceResponse(inv *settlement.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:                inv.ID.String(),
		Number:            inv.Number,
		SellerID:          inv.SellerID.String(),
		IssuedAt:          inv.IssuedAt,
		CommissionPercent: inv.CommissionPercent,
		Subtotal:          inv.Subtotal,
		ExemptTotal:       inv.ExemptTotal,
		ChangesTotal:      inv.ChangesTotal,
		CommissionBase:    inv.CommissionBase,
		CommissionValue:   inv.CommissionValue,
		PayableTotal:      inv.PayableTotal,
	}
}

// InvoiceItemResponse is one frozen invoice line.
type InvoiceItemResponse struct {
	ProductID        string `json:"productId"`
	ProductName      string `json:"productName"`
	SortOrder        int    `json:"sortOrder"`
	CommissionExempt bool   `json:"commissionExempt"`
	Price            int64  `json:"price"`
	Carry            int64  `json:"carry"`
	Recharge1        int64  `json:"r1"`
	Recharge2        int64  `json:"r2"`
	Recharge3        int64  `json:"r3"`
	Available        int64  `json:"available"`
	FinalQty         int64  `json:"finalQty"`
	ChangesQty       int64  `json:"changesQty"`
	BilledQty        int64  `json:"billedQty"`
	LineTotal        int64  `json:"lineTotal"`
	ChangesValue     int64  `json:"changesValue"`
}

// InvoiceWithItemsResponse is the full invoice read model.
type InvoiceWithItemsResponse struct {
	InvoiceResponse
	SellerName string                `json:"sellerName"`
	Items      []InvoiceItemResponse `json:"items"`
}

// NewInvoiceWithItemsResponse converts the domain read model.
func NewInvoiceWithItemsResponse(inv *settlement.InvoiceWithItems) InvoiceWithItemsResponse {
	items := make([]InvoiceItemResponse, 0, len(inv.Items))
	for i := range inv.Items {
		item := &inv.Items[i]
		items = append(items, InvoiceItemResponse{
			ProductID:        item.ProductID.String(),
			ProductName:      item.ProductName,
			SortOrder:        item.SortOrder,
			CommissionExempt: item.CommissionExempt,
			Price:            item.Price,
			Carry:            item.Carry,
			Recharge1:        item.Recharge1,
			Recharge2:        item.Recharge2,
			Recharge3:        item.Recharge3,
			Available:        item.Available,
			FinalQty:         item.FinalQty,
			ChangesQty:       item.ChangesQty,
			BilledQty:        item.BilledQty,
			LineTotal:        item.LineTotal,
			ChangesValue:     item.ChangesValue,
		})
	}
	return InvoiceWithItemsResponse{
		InvoiceResponse: NewInvoiceResponse(&inv.Invoice),
		SellerName:      inv.SellerName,
		Items:           items,
	}
}

// InvoiceSummaryResponse is one row of the invoice journal.
type InvoiceSummaryResponse struct {
	InvoiceResponse
	SellerName string `json:"sellerName"`
}

// NewInvoiceSummaryResponse converts one journal row.
func NewInvoiceSummaryResponse(s *settlement.InvoiceSummary) InvoiceSummaryResponse {
	return InvoiceSummaryResponse{
		InvoiceResponse: NewInvoiceResponse(&s.Invoice),
		SellerName:      s.SellerName,
	}
}

// InvoiceListQuery filters the invoice journal.
type InvoiceListQuery struct {
	PagingQuery
	SellerID string `form:"sellerId"`
	Number   *int64 `form:"number"`
	DateFrom string `form:"dateFrom"`
	DateTo   string `form:"dateTo"`
}
