// Package inventoryrepo persists per-seller inventory state and recharge
// cycles.
package inventoryrepo

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"breadroute/internal/core/apperror"
	"breadroute/internal/core/id"
	"breadroute/internal/domain/inventory"
	"breadroute/internal/infrastructure/storage/postgres"
)

const (
	stateTable = "seller_product_state"
	cycleTable = "seller_recharge_cycle"
)

// StateRepo implements inventory.Repository.
type StateRepo struct {
	txManager *postgres.TxManager
}

var _ inventory.Repository = (*StateRepo)(nil)

// NewStateRepo creates the inventory state repository.
func NewStateRepo(txManager *postgres.TxManager) *StateRepo {
	return &StateRepo{txManager: txManager}
}

func (r *StateRepo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

// GetCycle returns the seller's cycle row. A missing row means the seller
// does not exist: every seller gets its cycle row at creation.
func (r *StateRepo) GetCycle(ctx context.Context, sellerID id.ID) (*inventory.Cycle, error) {
	return r.getCycle(ctx, sellerID, "")
}

// GetCycleForUpdate locks the cycle row for the transaction.
func (r *StateRepo) GetCycleForUpdate(ctx context.Context, sellerID id.ID) (*inventory.Cycle, error) {
	return r.getCycle(ctx, sellerID, "FOR UPDATE")
}

func (r *StateRepo) getCycle(ctx context.Context, sellerID id.ID, suffix string) (*inventory.Cycle, error) {
	builder := sq.Select("seller_id", "current_slot", "updated_at").
		From(cycleTable).
		Where(sq.Eq{"seller_id": sellerID}).
		PlaceholderFormat(sq.Dollar)
	if suffix != "" {
		builder = builder.Suffix(suffix)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	var cycle inventory.Cycle
	if err := pgxscan.Get(ctx, r.querier(ctx), &cycle, query, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("seller", sellerID.String())
		}
		return nil, apperror.NewDatabase(err)
	}
	return &cycle, nil
}

// SetCycleSlot moves the seller's cycle to the given slot.
func (r *StateRepo) SetCycleSlot(ctx context.Context, sellerID id.ID, slot inventory.Slot) error {
	if !slot.Valid() {
		return apperror.NewInternal(errors.New("invalid cycle slot value"))
	}

	query, args, err := sq.Update(cycleTable).
		Set("current_slot", int(slot)).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"seller_id": sellerID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return apperror.NewInternal(err)
	}

	tag, err := r.querier(ctx).Exec(ctx, query, args...)
	if err != nil {
		return apperror.NewDatabase(err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("seller", sellerID.String())
	}
	return nil
}

// GetStates returns all state rows for the seller.
func (r *StateRepo) GetStates(ctx context.Context, sellerID id.ID) ([]inventory.ProductState, error) {
	query, args, err := sq.Select(postgres.ExtractDBColumns[inventory.ProductState]()...).
		From(stateTable).
		Where(sq.Eq{"seller_id": sellerID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	var states []inventory.ProductState
	if err := pgxscan.Select(ctx, r.querier(ctx), &states, query, args...); err != nil {
		return nil, apperror.NewDatabase(err)
	}
	return states, nil
}

// GetRows returns state joined with product data in display order.
func (r *StateRepo) GetRows(ctx context.Context, sellerID id.ID) ([]inventory.Row, error) {
	query, args, err := sq.Select(
		"s.product_id",
		"p.name AS product_name",
		"p.price",
		"p.sort_order",
		"p.commission_exempt",
		"s.carry",
		"s.recharge_1",
		"s.recharge_2",
		"s.recharge_3",
	).
		From(stateTable + " s").
		Join("products p ON p.id = s.product_id").
		Where(sq.Eq{"s.seller_id": sellerID}).
		OrderBy("p.sort_order", "p.name").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	var rows []inventory.Row
	if err := pgxscan.Select(ctx, r.querier(ctx), &rows, query, args...); err != nil {
		return nil, apperror.NewDatabase(err)
	}
	return rows, nil
}

// SetSlotQuantities overwrites one slot column for every given product.
func (r *StateRepo) SetSlotQuantities(ctx context.Context, sellerID id.ID, slot inventory.Slot, quantities map[id.ID]int64) error {
	column := slot.Column()
	if column == "" {
		return apperror.NewInternal(errors.New("cannot write into a closed cycle slot"))
	}

	now := time.Now().UTC()
	q := r.querier(ctx)
	for productID, qty := range quantities {
		query, args, err := sq.Update(stateTable).
			Set(column, qty).
			Set("updated_at", now).
			Where(sq.Eq{"seller_id": sellerID, "product_id": productID}).
			PlaceholderFormat(sq.Dollar).
			ToSql()
		if err != nil {
			return apperror.NewInternal(err)
		}
		tag, err := q.Exec(ctx, query, args...)
		if err != nil {
			return apperror.NewDatabase(err)
		}
		if tag.RowsAffected() == 0 {
			return apperror.NewUnknownProductState(sellerID, productID)
		}
	}
	return nil
}

// ApplyAdjustments overwrites all four quantity columns per product.
func (r *StateRepo) ApplyAdjustments(ctx context.Context, sellerID id.ID, items []inventory.Adjustment) error {
	now := time.Now().UTC()
	q := r.querier(ctx)
	for _, item := range items {
		query, args, err := sq.Update(stateTable).
			Set("carry", item.Carry).
			Set("recharge_1", item.Recharge1).
			Set("recharge_2", item.Recharge2).
			Set("recharge_3", item.Recharge3).
			Set("updated_at", now).
			Where(sq.Eq{"seller_id": sellerID, "product_id": item.ProductID}).
			PlaceholderFormat(sq.Dollar).
			ToSql()
		if err != nil {
			return apperror.NewInternal(err)
		}
		tag, err := q.Exec(ctx, query, args...)
		if err != nil {
			return apperror.NewDatabase(err)
		}
		if tag.RowsAffected() == 0 {
			return apperror.NewUnknownProductState(sellerID, item.ProductID)
		}
	}
	return nil
}

// ResetAfterSettlement writes the new carry per product and zeroes all
// three recharge columns.
func (r *StateRepo) ResetAfterSettlement(ctx context.Context, sellerID id.ID, carry map[id.ID]int64) error {
	now := time.Now().UTC()
	q := r.querier(ctx)
	for productID, qty := range carry {
		query, args, err := sq.Update(stateTable).
			Set("carry", qty).
			Set("recharge_1", 0).
			Set("recharge_2", 0).
			Set("recharge_3", 0).
			Set("updated_at", now).
			Where(sq.Eq{"seller_id": sellerID, "product_id": productID}).
			PlaceholderFormat(sq.Dollar).
			ToSql()
		if err != nil {
			return apperror.NewInternal(err)
		}
		tag, err := q.Exec(ctx, query, args...)
		if err != nil {
			return apperror.NewDatabase(err)
		}
		if tag.RowsAffected() == 0 {
			return apperror.NewUnknownProductState(sellerID, productID)
		}
	}
	return nil
}

// MaterializeForSeller creates zeroed state rows for every product plus the
// cycle row at slot 1. Settlement assumes full coverage, so this runs in the
// seller-create transaction, never as a background job.
func (r *StateRepo) MaterializeForSeller(ctx context.Context, sellerID id.ID) error {
	q := r.querier(ctx)

	_, err := q.Exec(ctx, `
		INSERT INTO seller_product_state (seller_id, product_id, carry, recharge_1, recharge_2, recharge_3, updated_at)
		SELECT $1, p.id, 0, 0, 0, 0, NOW()
		FROM products p
		ON CONFLICT (seller_id, product_id) DO NOTHING`, sellerID)
	if err != nil {
		return apperror.NewDatabase(err)
	}

	_, err = q.Exec(ctx, `
		INSERT INTO seller_recharge_cycle (seller_id, current_slot, updated_at)
		VALUES ($1, 1, NOW())
		ON CONFLICT (seller_id) DO NOTHING`, sellerID)
	if err != nil {
		return apperror.NewDatabase(err)
	}
	return nil
}

// MaterializeForProduct creates zeroed state rows for every seller.
func (r *StateRepo) MaterializeForProduct(ctx context.Context, productID id.ID) error {
	_, err := r.querier(ctx).Exec(ctx, `
		INSERT INTO seller_product_state (seller_id, product_id, carry, recharge_1, recharge_2, recharge_3, updated_at)
		SELECT s.id, $1, 0, 0, 0, 0, NOW()
		FROM sellers s
		ON CONFLICT (seller_id, product_id) DO NOTHING`, productID)
	if err != nil {
		return apperror.NewDatabase(err)
	}
	return nil
}
