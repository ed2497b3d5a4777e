package domain

import (
	"context"

	"breadroute/internal/core/entity"
	"breadroute/internal/core/id"
	"breadroute/internal/core/tx"
	"breadroute/pkg/logger"
)

// Hook runs custom logic at a lifecycle point. Hooks registered for create
// and update run inside the same transaction as the write itself, so a
// failing hook rolls the whole operation back.
type Hook[T any] func(ctx context.Context, e *T) error

// HookRegistry collects lifecycle hooks for a catalog entity.
type HookRegistry[T any] struct {
	beforeCreate []Hook[T]
	afterCreate  []Hook[T]
	beforeUpdate []Hook[T]
	afterUpdate  []Hook[T]
}

// OnBeforeCreate registers a hook that runs before the insert.
func (r *HookRegistry[T]) OnBeforeCreate(h Hook[T]) {
	r.beforeCreate = append(r.beforeCreate, h)
}

// OnAfterCreate registers a hook that runs after the insert, in-transaction.
func (r *HookRegistry[T]) OnAfterCreate(h Hook[T]) {
	r.afterCreate = append(r.afterCreate, h)
}

// OnBeforeUpdate registers a hook that runs before the update.
func (r *HookRegistry[T]) OnBeforeUpdate(h Hook[T]) {
	r.beforeUpdate = append(r.beforeUpdate, h)
}

// OnAfterUpdate registers a hook that runs after the update, in-transaction.
func (r *HookRegistry[T]) OnAfterUpdate(h Hook[T]) {
	r.afterUpdate = append(r.afterUpdate, h)
}

func runHooks[T any](ctx context.Context, hooks []Hook[T], e *T) error {
	for _, h := range hooks {
		if err := h(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

// CatalogService implements generic catalog operations: validated create and
// update wrapped in transactions, plus read operations. Domain-specific
// behavior is attached through the hook registry.
type CatalogService[T any] struct {
	repo      CatalogRepository[T]
	txManager tx.Manager
	hooks     HookRegistry[T]
	name      string
}

// NewCatalogService creates a catalog service for an entity type.
// name is used in logs, e.g. "seller" or "product".
func NewCatalogService[T any](name string, repo CatalogRepository[T], txManager tx.Manager) *CatalogService[T] {
	return &CatalogService[T]{
		repo:      repo,
		txManager: txManager,
		name:      name,
	}
}

// Hooks exposes the registry for wiring domain-specific behavior.
func (s *CatalogService[T]) Hooks() *HookRegistry[T] {
	return &s.hooks
}

// Create validates and persists a new entity, running create hooks in the
// same transaction.
func (s *CatalogService[T]) Create(ctx context.Context, e *T) error {
	if err := s.validate(ctx, e); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := runHooks(ctx, s.hooks.beforeCreate, e); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, e); err != nil {
			return err
		}
		return runHooks(ctx, s.hooks.afterCreate, e)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "catalog entity created", "catalog", s.name)
	return nil
}

// Update validates and persists changes to an existing entity.
// The repo enforces optimistic locking via the version column.
func (s *CatalogService[T]) Update(ctx context.Context, e *T) error {
	if err := s.validate(ctx, e); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := runHooks(ctx, s.hooks.beforeUpdate, e); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, e); err != nil {
			return err
		}
		return runHooks(ctx, s.hooks.afterUpdate, e)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "catalog entity updated", "catalog", s.name)
	return nil
}

// GetByID returns the entity or a not-found error.
func (s *CatalogService[T]) GetByID(ctx context.Context, entityID id.ID) (*T, error) {
	return s.repo.GetByID(ctx, entityID)
}

// List returns a page of entities matching the filter.
func (s *CatalogService[T]) List(ctx context.Context, filter ListFilter) (*ListResult[T], error) {
	filter.Normalize()
	return s.repo.List(ctx, filter)
}

// Exists reports whether the entity exists.
func (s *CatalogService[T]) Exists(ctx context.Context, entityID id.ID) (bool, error) {
	return s.repo.Exists(ctx, entityID)
}

func (s *CatalogService[T]) validate(ctx context.Context, e *T) error {
	if v, ok := any(e).(entity.Validatable); ok {
		return v.Validate(ctx)
	}
	return nil
}
