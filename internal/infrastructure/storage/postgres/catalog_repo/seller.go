package catalogrepo

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"breadroute/internal/core/apperror"
	"breadroute/internal/domain/catalogs/seller"
	"breadroute/internal/infrastructure/storage/postgres"
)

// SellerRepo persists the seller catalog.
type SellerRepo struct {
	*BaseCatalogRepo[seller.Seller]
}

var _ seller.Repo = (*SellerRepo)(nil)

// NewSellerRepo creates the seller repository.
func NewSellerRepo(txManager *postgres.TxManager) *SellerRepo {
	return &SellerRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[seller.Seller](
			txManager,
			"sellers",
			"seller",
			[]string{"name", "created_at", "updated_at"},
		),
	}
}

// GetByName finds a seller by case-insensitive name.
func (r *SellerRepo) GetByName(ctx context.Context, name string) (*seller.Seller, error) {
	query, args, err := sq.Select(postgres.ExtractDBColumns[seller.Seller]()...).
		From(r.Table()).
		Where(sq.Expr("LOWER(name) = LOWER(?)", name)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	var e seller.Seller
	if err := pgxscan.Get(ctx, r.Querier(ctx), &e, query, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("seller", name)
		}
		return nil, apperror.NewDatabase(err)
	}
	return &e, nil
}
