// Package domain contains shared domain-layer abstractions for catalogs.
package domain

import (
	"context"

	"breadroute/internal/core/id"
)

// ListFilter describes pagination and filtering for list queries.
type ListFilter struct {
	// Limit of items per page (0 = default)
	Limit int

	// Offset for pagination
	Offset int

	// OrderBy column with optional direction, e.g. "name ASC".
	// Validated against the repo's column whitelist.
	OrderBy string

	// Conditions are exact-match column filters.
	Conditions map[string]any
}

// DefaultLimit applied when ListFilter.Limit is zero.
const DefaultLimit = 100

// Normalize fills in defaults.
func (f *ListFilter) Normalize() {
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

// ListResult holds a page of items plus total count.
type ListResult[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
}

// CatalogRepository is the storage contract for catalog entities.
type CatalogRepository[T any] interface {
	Create(ctx context.Context, e *T) error
	Update(ctx context.Context, e *T) error
	GetByID(ctx context.Context, entityID id.ID) (*T, error)

	// GetForUpdate locks the row for the duration of the transaction.
	GetForUpdate(ctx context.Context, entityID id.ID) (*T, error)

	List(ctx context.Context, filter ListFilter) (*ListResult[T], error)
	Exists(ctx context.Context, entityID id.ID) (bool, error)
}
