// Package product manages the bakery product catalog.
package product

import (
	"context"
	"strings"

	"breadroute/internal/core/apperror"
	"breadroute/internal/core/entity"
)

const maxNameLength = 120

// Product is a sellable bakery item. Price is in whole currency units;
// the business bills no fractional amounts.
type Product struct {
	entity.BaseCatalog

	Name  string `db:"name" json:"name"`
	Price int64  `db:"price" json:"price"`

	// SortOrder fixes the position on inventory and invoice screens.
	SortOrder int `db:"sort_order" json:"sortOrder"`

	// CommissionExempt excludes this product's sales from the commission
	// base at settlement.
	CommissionExempt bool `db:"commission_exempt" json:"commissionExempt"`
}

// New creates a product. SortOrder is assigned on create when zero.
func New(name string, price int64, commissionExempt bool) *Product {
	return &Product{
		BaseCatalog:      entity.NewBaseCatalog(),
		Name:             strings.TrimSpace(name),
		Price:            price,
		CommissionExempt: commissionExempt,
	}
}

// Validate implements entity.Validatable.
func (p *Product) Validate(ctx context.Context) error {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return apperror.NewValidation("product name is required")
	}
	if len(name) > maxNameLength {
		return apperror.NewValidation("product name is too long").
			WithDetail("max_length", maxNameLength)
	}
	p.Name = name

	if p.Price < 0 {
		return apperror.NewValidation("product price must not be negative").
			WithDetail("price", p.Price)
	}
	if p.SortOrder < 0 {
		return apperror.NewValidation("product sort order must not be negative").
			WithDetail("sort_order", p.SortOrder)
	}
	return nil
}
