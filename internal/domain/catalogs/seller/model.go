// Package seller manages the route-seller catalog.
package seller

import (
	"context"
	"strings"

	"breadroute/internal/core/apperror"
	"breadroute/internal/core/entity"
)

const maxNameLength = 120

// Seller is a route seller who receives recharges and settles against them.
type Seller struct {
	entity.BaseCatalog

	Name string `db:"name" json:"name"`

	// Active hides the seller from day-to-day screens. Inactive sellers
	// keep their state and invoice history.
	Active bool `db:"active" json:"active"`
}

// New creates an active seller with the given name.
func New(name string) *Seller {
	return &Seller{
		BaseCatalog: entity.NewBaseCatalog(),
		Name:        strings.TrimSpace(name),
		Active:      true,
	}
}

// Validate implements entity.Validatable.
func (s *Seller) Validate(ctx context.Context) error {
	name := strings.TrimSpace(s.Name)
	if name == "" {
		return apperror.NewValidation("seller name is required")
	}
	if len(name) > maxNameLength {
		return apperror.NewValidation("seller name is too long").
			WithDetail("max_length", maxNameLength)
	}
	s.Name = name
	return nil
}
