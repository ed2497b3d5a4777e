package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"breadroute/internal/core/apperror"
	"breadroute/internal/core/id"
	"breadroute/internal/domain/inventory"
	"breadroute/internal/infrastructure/http/v1/dto"
)

// InventoryHandler serves inventory state and recharge endpoints.
type InventoryHandler struct {
	service *inventory.Service
}

// NewInventoryHandler creates the inventory handler.
func NewInventoryHandler(service *inventory.Service) *InventoryHandler {
	return &InventoryHandler{service: service}
}

// Get returns the seller's inventory picture with the next writable slot.
func (h *InventoryHandler) Get(c *gin.Context) {
	sellerID, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}
	view, err := h.service.GetInventory(c.Request.Context(), sellerID)
	if err != nil {
		HandleError(c, err)
		return
	}
	OK(c, dto.NewInventoryResponse(view))
}

// Recharge commits a batch into the seller's open slot.
func (h *InventoryHandler) Recharge(c *gin.Context) {
	sellerID, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.RechargeRequest
	if !BindJSON(c, &req) {
		return
	}

	lines := make([]inventory.RechargeLine, 0, len(req.Items))
	for _, item := range req.Items {
		productID, err := id.Parse(item.ProductID)
		if err != nil {
			HandleError(c, apperror.NewValidation("invalid product id").
				WithDetail("product_id", item.ProductID))
			return
		}
		lines = append(lines, inventory.RechargeLine{ProductID: productID, Qty: *item.Qty})
	}

	result, err := h.service.CommitRecharge(c.Request.Context(), &inventory.RechargeBatch{
		SellerID: sellerID,
		Lines:    lines,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	OK(c, dto.NewRechargeResponse(result))
}

// Adjust overwrites state columns directly. Administrative path.
func (h *InventoryHandler) Adjust(c *gin.Context) {
	sellerID, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.AdjustRequest
	if !BindJSON(c, &req) {
		return
	}

	items := make([]inventory.Adjustment, 0, len(req.Items))
	for _, item := range req.Items {
		productID, err := id.Parse(item.ProductID)
		if err != nil {
			HandleError(c, apperror.NewValidation("invalid product id").
				WithDetail("product_id", item.ProductID))
			return
		}
		items = append(items, inventory.Adjustment{
			ProductID: productID,
			Carry:     *item.Carry,
			Recharge1: *item.Recharge1,
			Recharge2: *item.Recharge2,
			Recharge3: *item.Recharge3,
		})
	}

	if err := h.service.AdjustState(c.Request.Context(), sellerID, items); err != nil {
		HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
