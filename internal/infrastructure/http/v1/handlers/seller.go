package handlers

import (
	"github.com/gin-gonic/gin"

	"breadroute/internal/domain/catalogs/seller"
	"breadroute/internal/infrastructure/http/v1/dto"
)

// SellerHandler serves the seller catalog endpoints.
type SellerHandler struct {
	service *seller.Service
}

// NewSellerHandler creates the seller handler.
func NewSellerHandler(service *seller.Service) *SellerHandler {
	return &SellerHandler{service: service}
}

// List returns sellers ordered by name. Inactive sellers are hidden unless
// ?includeInactive=true.
func (h *SellerHandler) List(c *gin.Context) {
	var paging dto.PagingQuery
	if !BindQuery(c, &paging) {
		return
	}
	includeInactive := c.Query("includeInactive") == "true"

	result, err := h.service.ListSellers(c.Request.Context(), includeInactive, paging.Limit, paging.Offset)
	if err != nil {
		HandleError(c, err)
		return
	}

	items := make([]dto.SellerResponse, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, dto.NewSellerResponse(&result.Items[i]))
	}
	OK(c, dto.ListResponse[dto.SellerResponse]{Items: items, Total: result.Total})
}

// Get returns one seller.
func (h *SellerHandler) Get(c *gin.Context) {
	sellerID, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}
	e, err := h.service.GetByID(c.Request.Context(), sellerID)
	if err != nil {
		HandleError(c, err)
		return
	}
	OK(c, dto.NewSellerResponse(e))
}

// Create adds a seller and materializes its inventory state.
func (h *SellerHandler) Create(c *gin.Context) {
	var req dto.CreateSellerRequest
	if !BindJSON(c, &req) {
		return
	}
	e, err := h.service.CreateNamed(c.Request.Context(), req.Name)
	if err != nil {
		HandleError(c, err)
		return
	}
	Created(c, dto.NewSellerResponse(e))
}

// Update renames a seller.
func (h *SellerHandler) Update(c *gin.Context) {
	sellerID, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateSellerRequest
	if !BindJSON(c, &req) {
		return
	}
	e, err := h.service.Rename(c.Request.Context(), sellerID, req.Name)
	if err != nil {
		HandleError(c, err)
		return
	}
	OK(c, dto.NewSellerResponse(e))
}

// SetActive toggles seller visibility.
func (h *SellerHandler) SetActive(c *gin.Context) {
	sellerID, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.SetSellerActiveRequest
	if !BindJSON(c, &req) {
		return
	}
	e, err := h.service.SetActive(c.Request.Context(), sellerID, *req.Active)
	if err != nil {
		HandleError(c, err)
		return
	}
	OK(c, dto.NewSellerResponse(e))
}
