package handlers

import (
	"github.com/gin-gonic/gin"

	"breadroute/internal/domain/catalogs/product"
	"breadroute/internal/infrastructure/http/v1/dto"
)

// ProductHandler serves the product catalog endpoints.
type ProductHandler struct {
	service *product.Service
}

// NewProductHandler creates the product handler.
func NewProductHandler(service *product.Service) *ProductHandler {
	return &ProductHandler{service: service}
}

// List returns products in display order.
func (h *ProductHandler) List(c *gin.Context) {
	var paging dto.PagingQuery
	if !BindQuery(c, &paging) {
		return
	}

	result, err := h.service.ListProducts(c.Request.Context(), paging.Limit, paging.Offset)
	if err != nil {
		HandleError(c, err)
		return
	}

	items := make([]dto.ProductResponse, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, dto.NewProductResponse(&result.Items[i]))
	}
	OK(c, dto.ListResponse[dto.ProductResponse]{Items: items, Total: result.Total})
}

// Get returns one product.
func (h *ProductHandler) Get(c *gin.Context) {
	productID, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}
	e, err := h.service.GetByID(c.Request.Context(), productID)
	if err != nil {
		HandleError(c, err)
		return
	}
	OK(c, dto.NewProductResponse(e))
}

// Create adds a product and materializes state for every seller.
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !BindJSON(c, &req) {
		return
	}
	e, err := h.service.CreateNew(c.Request.Context(), req.Name, *req.Price, req.CommissionExempt)
	if err != nil {
		HandleError(c, err)
		return
	}
	Created(c, dto.NewProductResponse(e))
}

// Update changes name, price and exemption.
func (h *ProductHandler) Update(c *gin.Context) {
	productID, ok := ParseIDParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateProductRequest
	if !BindJSON(c, &req) {
		return
	}
	e, err := h.service.UpdateProduct(c.Request.Context(), productID, req.Name, *req.Price, req.CommissionExempt)
	if err != nil {
		HandleError(c, err)
		return
	}
	OK(c, dto.NewProductResponse(e))
}
