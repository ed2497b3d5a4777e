package product

import (
	"context"

	"breadroute/internal/core/apperror"
	"breadroute/internal/core/id"
	"breadroute/internal/core/tx"
	"breadroute/internal/domain"
)

// Repo extends the generic catalog contract with product-specific lookups.
type Repo interface {
	domain.CatalogRepository[Product]

	// GetByName finds a product by case-insensitive name match, or returns
	// a not-found error.
	GetByName(ctx context.Context, name string) (*Product, error)

	// NextSortOrder returns max(sort_order)+1, starting at 1.
	NextSortOrder(ctx context.Context) (int, error)
}

// Materializer creates inventory rows for a new product across all sellers.
// Satisfied by the inventory repository; runs inside the create transaction.
type Materializer interface {
	MaterializeForProduct(ctx context.Context, productID id.ID) error
}

// Service wraps the generic catalog service with product rules: name
// uniqueness, sort order assignment, state materialization.
type Service struct {
	*domain.CatalogService[Product]
	repo      Repo
	txManager tx.Manager
	audit     domain.Auditor
}

// NewService wires the product catalog service.
func NewService(repo Repo, txManager tx.Manager, mat Materializer, audit domain.Auditor) *Service {
	s := &Service{
		CatalogService: domain.NewCatalogService[Product]("product", repo, txManager),
		repo:           repo,
		txManager:      txManager,
		audit:          audit,
	}

	hooks := s.Hooks()
	hooks.OnBeforeCreate(func(ctx context.Context, e *Product) error {
		if err := s.checkNameUnique(ctx, e); err != nil {
			return err
		}
		if e.SortOrder == 0 {
			next, err := s.repo.NextSortOrder(ctx)
			if err != nil {
				return err
			}
			e.SortOrder = next
		}
		return nil
	})
	hooks.OnAfterCreate(func(ctx context.Context, e *Product) error {
		if err := mat.MaterializeForProduct(ctx, e.ID); err != nil {
			return err
		}
		return audit.Record(ctx, "product", e.ID.String(), "create", e)
	})
	hooks.OnBeforeUpdate(s.checkNameUnique)
	hooks.OnAfterUpdate(func(ctx context.Context, e *Product) error {
		return audit.Record(ctx, "product", e.ID.String(), "update", e)
	})

	return s
}

func (s *Service) checkNameUnique(ctx context.Context, e *Product) error {
	existing, err := s.repo.GetByName(ctx, e.Name)
	if apperror.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != e.ID {
		return apperror.NewDuplicate("product", "name", e.Name)
	}
	return nil
}

// CreateNew creates a product and materializes zeroed inventory state for
// every seller in the same transaction.
func (s *Service) CreateNew(ctx context.Context, name string, price int64, commissionExempt bool) (*Product, error) {
	e := New(name, price, commissionExempt)
	if err := s.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// UpdateProduct changes name, price and exemption. The row is locked for the
// transaction so a concurrent edit waits instead of tripping the version
// check.
func (s *Service) UpdateProduct(ctx context.Context, productID id.ID, name string, price int64, commissionExempt bool) (*Product, error) {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		e, err := s.repo.GetForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		e.Name = name
		e.Price = price
		e.CommissionExempt = commissionExempt
		return s.Update(ctx, e)
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, productID)
}

// ListProducts returns products in display order.
func (s *Service) ListProducts(ctx context.Context, limit, offset int) (*domain.ListResult[Product], error) {
	return s.List(ctx, domain.ListFilter{
		Limit:   limit,
		Offset:  offset,
		OrderBy: "sort_order ASC",
	})
}
