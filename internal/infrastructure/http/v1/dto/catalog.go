package dto

import (
	"time"

	"breadroute/internal/domain/catalogs/product"
	"breadroute/internal/domain/catalogs/seller"
)

// CreateSellerRequest creates a route seller.
type CreateSellerRequest struct {
	Name string `json:"name" binding:"required"`
}

// UpdateSellerRequest renames a seller.
type UpdateSellerRequest struct {
	Name string `json:"name" binding:"required"`
}

// SetSellerActiveRequest toggles seller visibility.
type SetSellerActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// SellerResponse is the API shape of a seller.
type SellerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewSellerResponse converts the domain entity.
func NewSellerResponse(e *seller.Seller) SellerResponse {
	return SellerResponse{
		ID:        e.ID.String(),
		Name:      e.Name,
		Active:    e.Active,
		Version:   e.Version,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

// CreateProductRequest creates a product. Price is in whole currency units.
type CreateProductRequest struct {
	Name             string `json:"name" binding:"required"`
	Price            *int64 `json:"price" binding:"required"`
	CommissionExempt bool   `json:"commissionExempt"`
}

// UpdateProductRequest changes name, price and exemption.
type UpdateProductRequest struct {
	Name             string `json:"name" binding:"required"`
	Price            *int64 `json:"price" binding:"required"`
	CommissionExempt bool   `json:"commissionExempt"`
}

// ProductResponse is the API shape of a product.
type ProductResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Price            int64     `json:"price"`
	SortOrder        int       `json:"sortOrder"`
	CommissionExempt bool      `json:"commissionExempt"`
	Version          int       `json:"version"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// NewProductResponse converts the domain entity.
func NewProductResponse(e *product.Product) ProductResponse {
	return ProductResponse{
		ID:               e.ID.String(),
		Name:             e.Name,
		Price:            e.Price,
		SortOrder:        e.SortOrder,
		CommissionExempt: e.CommissionExempt,
		Version:          e.Version,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}
