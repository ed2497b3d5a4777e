package catalogrepo

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"breadroute/internal/core/apperror"
	"breadroute/internal/domain/catalogs/product"
	"breadroute/internal/infrastructure/storage/postgres"
)

// ProductRepo persists the product catalog.
type ProductRepo struct {
	*BaseCatalogRepo[product.Product]
}

var _ product.Repo = (*ProductRepo)(nil)

// NewProductRepo creates the product repository.
func NewProductRepo(txManager *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[product.Product](
			txManager,
			"products",
			"product",
			[]string{"name", "price", "sort_order", "created_at", "updated_at"},
		),
	}
}

// GetByName finds a product by case-insensitive name.
func (r *ProductRepo) GetByName(ctx context.Context, name string) (*product.Product, error) {
	query, args, err := sq.Select(postgres.ExtractDBColumns[product.Product]()...).
		From(r.Table()).
		Where(sq.Expr("LOWER(name) = LOWER(?)", name)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	var e product.Product
	if err := pgxscan.Get(ctx, r.Querier(ctx), &e, query, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("product", name)
		}
		return nil, apperror.NewDatabase(err)
	}
	return &e, nil
}

// NextSortOrder returns max(sort_order)+1, starting at 1 for an empty catalog.
func (r *ProductRepo) NextSortOrder(ctx context.Context) (int, error) {
	var next int
	err := r.Querier(ctx).QueryRow(ctx,
		"SELECT COALESCE(MAX(sort_order), 0) + 1 FROM products").Scan(&next)
	if err != nil {
		return 0, apperror.NewDatabase(err)
	}
	return next, nil
}
