// Package catalogrepo implements PostgreSQL repositories for catalog entities.
package catalogrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"breadroute/internal/core/apperror"
	"breadroute/internal/core/id"
	"breadroute/internal/domain"
	"breadroute/internal/infrastructure/storage/postgres"
)

const uniqueViolationCode = "23505"

// BaseCatalogRepo provides generic CRUD for catalog entities using squirrel
// for query building and scany for row scanning. Entity-specific repos embed
// it and add their own queries.
type BaseCatalogRepo[T any] struct {
	txManager  *postgres.TxManager
	table      string
	entityName string
	columns    []string
	orderable  map[string]bool
}

// NewBaseCatalogRepo creates a repo for table. Columns are extracted from the
// entity's db tags once at construction. orderable whitelists ORDER BY columns.
func NewBaseCatalogRepo[T any](txManager *postgres.TxManager, table, entityName string, orderable []string) *BaseCatalogRepo[T] {
	allowed := make(map[string]bool, len(orderable))
	for _, col := range orderable {
		allowed[col] = true
	}
	return &BaseCatalogRepo[T]{
		txManager:  txManager,
		table:      table,
		entityName: entityName,
		columns:    postgres.ExtractDBColumns[T](),
		orderable:  allowed,
	}
}

// Querier returns the active querier (tx or pool) for ctx.
func (r *BaseCatalogRepo[T]) Querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

// Table returns the repo's table name.
func (r *BaseCatalogRepo[T]) Table() string {
	return r.table
}

// Create inserts the entity.
func (r *BaseCatalogRepo[T]) Create(ctx context.Context, e *T) error {
	query, args, err := sq.Insert(r.table).
		SetMap(postgres.StructToMap(e)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("build insert for %s: %w", r.table, err))
	}

	if _, err := r.Querier(ctx).Exec(ctx, query, args...); err != nil {
		return r.translateError(err, "insert")
	}
	return nil
}

// Update persists changes with optimistic locking: the row is matched on both
// id and the version the caller read. Zero rows affected means either the
// entity is gone or someone updated it first.
func (r *BaseCatalogRepo[T]) Update(ctx context.Context, e *T) error {
	m := postgres.StructToMap(e)

	entityID, ok := m["id"]
	if !ok {
		return apperror.NewInternal(errors.New("entity has no id column"))
	}
	version, ok := m["version"].(int)
	if !ok {
		return apperror.NewInternal(errors.New("entity has no version column"))
	}

	delete(m, "id")
	delete(m, "created_at")
	m["version"] = version + 1
	m["updated_at"] = time.Now().UTC()

	query, args, err := sq.Update(r.table).
		SetMap(m).
		Where(sq.Eq{"id": entityID, "version": version}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("build update for %s: %w", r.table, err))
	}

	tag, err := r.Querier(ctx).Exec(ctx, query, args...)
	if err != nil {
		return r.translateError(err, "update")
	}

	if tag.RowsAffected() == 0 {
		uid, _ := entityID.(id.ID)
		exists, exErr := r.Exists(ctx, uid)
		if exErr != nil {
			return exErr
		}
		if !exists {
			return apperror.NewNotFound(r.entityName, uid.String())
		}
		return apperror.NewConcurrentModification(r.entityName, uid.String())
	}
	return nil
}

// GetByID fetches the entity or returns a not-found error.
func (r *BaseCatalogRepo[T]) GetByID(ctx context.Context, entityID id.ID) (*T, error) {
	return r.getOne(ctx, entityID, "")
}

// GetForUpdate fetches the entity with a row lock held until tx end.
func (r *BaseCatalogRepo[T]) GetForUpdate(ctx context.Context, entityID id.ID) (*T, error) {
	return r.getOne(ctx, entityID, "FOR UPDATE")
}

func (r *BaseCatalogRepo[T]) getOne(ctx context.Context, entityID id.ID, suffix string) (*T, error) {
	builder := sq.Select(r.columns...).
		From(r.table).
		Where(sq.Eq{"id": entityID}).
		PlaceholderFormat(sq.Dollar)
	if suffix != "" {
		builder = builder.Suffix(suffix)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("build select for %s: %w", r.table, err))
	}

	var e T
	if err := pgxscan.Get(ctx, r.Querier(ctx), &e, query, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound(r.entityName, entityID.String())
		}
		return nil, r.translateError(err, "select")
	}
	return &e, nil
}

// List returns a page of entities plus the total count for the same filter.
func (r *BaseCatalogRepo[T]) List(ctx context.Context, filter domain.ListFilter) (*domain.ListResult[T], error) {
	filter.Normalize()

	where := sq.Eq{}
	for col, val := range filter.Conditions {
		where[col] = val
	}

	countQuery, countArgs, err := sq.Select("COUNT(*)").
		From(r.table).
		Where(where).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("build count for %s: %w", r.table, err))
	}

	var total int64
	if err := r.Querier(ctx).QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, r.translateError(err, "count")
	}

	builder := sq.Select(r.columns...).
		From(r.table).
		Where(where).
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset)).
		PlaceholderFormat(sq.Dollar)

	orderBy, err := r.parseOrderBy(filter.OrderBy)
	if err != nil {
		return nil, err
	}
	if orderBy != "" {
		builder = builder.OrderBy(orderBy)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("build list for %s: %w", r.table, err))
	}

	var items []T
	if err := pgxscan.Select(ctx, r.Querier(ctx), &items, query, args...); err != nil {
		return nil, r.translateError(err, "list")
	}

	return &domain.ListResult[T]{Items: items, Total: total}, nil
}

// Exists reports whether a row with this id exists.
func (r *BaseCatalogRepo[T]) Exists(ctx context.Context, entityID id.ID) (bool, error) {
	query, args, err := sq.Select("1").
		From(r.table).
		Where(sq.Eq{"id": entityID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return false, apperror.NewInternal(fmt.Errorf("build exists for %s: %w", r.table, err))
	}

	var one int
	err = r.Querier(ctx).QueryRow(ctx, query, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, r.translateError(err, "exists")
	}
	return true, nil
}

// parseOrderBy validates the order clause against the column whitelist.
// Accepts "col" or "col ASC|DESC".
func (r *BaseCatalogRepo[T]) parseOrderBy(orderBy string) (string, error) {
	orderBy = strings.TrimSpace(orderBy)
	if orderBy == "" {
		return "", nil
	}

	parts := strings.Fields(orderBy)
	if len(parts) > 2 {
		return "", apperror.NewValidation("invalid order_by clause").WithDetail("order_by", orderBy)
	}

	col := parts[0]
	if !r.orderable[col] {
		return "", apperror.NewValidation("column not allowed in order_by").WithDetail("column", col)
	}

	dir := "ASC"
	if len(parts) == 2 {
		switch strings.ToUpper(parts[1]) {
		case "ASC", "DESC":
			dir = strings.ToUpper(parts[1])
		default:
			return "", apperror.NewValidation("invalid order_by direction").WithDetail("direction", parts[1])
		}
	}

	return col + " " + dir, nil
}

func (r *BaseCatalogRepo[T]) translateError(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return apperror.NewDuplicate(r.entityName, "name", pgErr.Detail).WithDetail("constraint", pgErr.ConstraintName)
	}
	return apperror.NewDatabase(fmt.Errorf("%s %s: %w", op, r.table, err))
}
