package seller

import (
	"context"

	"breadroute/internal/core/apperror"
	"breadroute/internal/core/id"
	"breadroute/internal/core/tx"
	"breadroute/internal/domain"
)

// Repo extends the generic catalog contract with name lookup.
type Repo interface {
	domain.CatalogRepository[Seller]

	// GetByName finds a seller by case-insensitive name match, or returns
	// a not-found error.
	GetByName(ctx context.Context, name string) (*Seller, error)
}

// Materializer creates the inventory rows a new seller needs. Satisfied by
// the inventory repository; runs inside the seller-create transaction.
type Materializer interface {
	MaterializeForSeller(ctx context.Context, sellerID id.ID) error
}

// Service wraps the generic catalog service with seller-specific rules:
// case-insensitive name uniqueness and in-transaction state materialization.
type Service struct {
	*domain.CatalogService[Seller]
	repo      Repo
	txManager tx.Manager
	audit     domain.Auditor
}

// NewService wires the seller catalog service.
func NewService(repo Repo, txManager tx.Manager, mat Materializer, audit domain.Auditor) *Service {
	s := &Service{
		CatalogService: domain.NewCatalogService[Seller]("seller", repo, txManager),
		repo:           repo,
		txManager:      txManager,
		audit:          audit,
	}

	hooks := s.Hooks()
	hooks.OnBeforeCreate(s.checkNameUnique)
	hooks.OnAfterCreate(func(ctx context.Context, e *Seller) error {
		if err := mat.MaterializeForSeller(ctx, e.ID); err != nil {
			return err
		}
		return audit.Record(ctx, "seller", e.ID.String(), "create", e)
	})
	hooks.OnBeforeUpdate(s.checkNameUnique)
	hooks.OnAfterUpdate(func(ctx context.Context, e *Seller) error {
		return audit.Record(ctx, "seller", e.ID.String(), "update", e)
	})

	return s
}

// checkNameUnique rejects a name already taken by a different seller,
// active or not. The unique index on lower(name) backs this under races.
func (s *Service) checkNameUnique(ctx context.Context, e *Seller) error {
	existing, err := s.repo.GetByName(ctx, e.Name)
	if apperror.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != e.ID {
		return apperror.NewDuplicate("seller", "name", e.Name)
	}
	return nil
}

// CreateNamed creates a new active seller, materializing its inventory
// state and cycle row in the same transaction.
func (s *Service) CreateNamed(ctx context.Context, name string) (*Seller, error) {
	e := New(name)
	if err := s.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Rename changes the seller's name under the same uniqueness rule. The row
// is locked for the transaction so a concurrent edit waits instead of
// tripping the version check.
func (s *Service) Rename(ctx context.Context, sellerID id.ID, name string) (*Seller, error) {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		e, err := s.repo.GetForUpdate(ctx, sellerID)
		if err != nil {
			return err
		}
		e.Name = name
		return s.Update(ctx, e)
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, sellerID)
}

// SetActive toggles seller visibility. State and history are kept.
func (s *Service) SetActive(ctx context.Context, sellerID id.ID, active bool) (*Seller, error) {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		e, err := s.repo.GetForUpdate(ctx, sellerID)
		if err != nil {
			return err
		}
		if e.Active == active {
			return nil
		}
		e.Active = active
		return s.Update(ctx, e)
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, sellerID)
}

// ListSellers returns sellers ordered by name, active only unless
// includeInactive is set.
func (s *Service) ListSellers(ctx context.Context, includeInactive bool, limit, offset int) (*domain.ListResult[Seller], error) {
	filter := domain.ListFilter{
		Limit:   limit,
		Offset:  offset,
		OrderBy: "name ASC",
	}
	if !includeInactive {
		filter.Conditions = map[string]any{"active": true}
	}
	return s.List(ctx, filter)
}
