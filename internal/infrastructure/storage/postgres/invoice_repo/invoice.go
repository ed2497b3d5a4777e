// Package invoicerepo persists settlement invoices and their item snapshots.
package invoicerepo

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"breadroute/internal/core/apperror"
	"breadroute/internal/core/id"
	"breadroute/internal/domain/settlement"
	"breadroute/internal/infrastructure/storage/postgres"
)

const (
	invoiceTable = "invoices"
	itemTable    = "invoice_items"
)

// InvoiceRepo implements settlement.Repository.
type InvoiceRepo struct {
	txManager *postgres.TxManager
}

var _ settlement.Repository = (*InvoiceRepo)(nil)

// NewInvoiceRepo creates the invoice repository.
func NewInvoiceRepo(txManager *postgres.TxManager) *InvoiceRepo {
	return &InvoiceRepo{txManager: txManager}
}

func (r *InvoiceRepo) querier(ctx context.Context) postgres.Querier {
	return r.txManager.GetQuerier(ctx)
}

// CreateInvoice inserts the invoice. The journal number comes from the
// table's identity column and is written back into inv.
func (r *InvoiceRepo) CreateInvoice(ctx context.Context, inv *settlement.Invoice) error {
	values := postgres.StructToMap(inv)
	delete(values, "number")

	query, args, err := sq.Insert(invoiceTable).
		SetMap(values).
		Suffix("RETURNING number").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return apperror.NewInternal(err)
	}

	if err := r.querier(ctx).QueryRow(ctx, query, args...).Scan(&inv.Number); err != nil {
		return apperror.NewDatabase(err)
	}
	return nil
}

// CreateItems inserts all item snapshots in one statement.
func (r *InvoiceRepo) CreateItems(ctx context.Context, items []settlement.InvoiceItem) error {
	if len(items) == 0 {
		return nil
	}

	columns := postgres.ExtractDBColumns[settlement.InvoiceItem]()
	builder := sq.Insert(itemTable).Columns(columns...).PlaceholderFormat(sq.Dollar)
	for i := range items {
		m := postgres.StructToMap(&items[i])
		row := make([]any, len(columns))
		for j, col := range columns {
			row[j] = m[col]
		}
		builder = builder.Values(row...)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return apperror.NewInternal(err)
	}
	if _, err := r.querier(ctx).Exec(ctx, query, args...); err != nil {
		return apperror.NewDatabase(err)
	}
	return nil
}

func invoiceColumns(prefix string) []string {
	cols := postgres.ExtractDBColumns[settlement.Invoice]()
	out := make([]string, len(cols))
	for i, col := range cols {
		out[i] = prefix + "." + col
	}
	return out
}

// GetInvoice returns the invoice with seller name and ordered items.
func (r *InvoiceRepo) GetInvoice(ctx context.Context, invoiceID id.ID) (*settlement.InvoiceWithItems, error) {
	columns := append(invoiceColumns("i"), "s.name AS seller_name")
	query, args, err := sq.Select(columns...).
		From(invoiceTable + " i").
		Join("sellers s ON s.id = i.seller_id").
		Where(sq.Eq{"i.id": invoiceID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	var inv settlement.InvoiceWithItems
	if err := pgxscan.Get(ctx, r.querier(ctx), &inv, query, args...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFound("invoice", invoiceID.String())
		}
		return nil, apperror.NewDatabase(err)
	}

	itemQuery, itemArgs, err := sq.Select(postgres.ExtractDBColumns[settlement.InvoiceItem]()...).
		From(itemTable).
		Where(sq.Eq{"invoice_id": invoiceID}).
		OrderBy("sort_order", "product_name").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	if err := pgxscan.Select(ctx, r.querier(ctx), &inv.Items, itemQuery, itemArgs...); err != nil {
		return nil, apperror.NewDatabase(err)
	}

	return &inv, nil
}

func filterConditions(filter settlement.ListFilter) []sq.Sqlizer {
	var conds []sq.Sqlizer
	if filter.SellerID != nil {
		conds = append(conds, sq.Eq{"i.seller_id": *filter.SellerID})
	}
	if filter.Number != nil {
		conds = append(conds, sq.Eq{"i.number": *filter.Number})
	}
	if filter.DateFrom != nil {
		conds = append(conds, sq.GtOrEq{"i.issued_at": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		conds = append(conds, sq.LtOrEq{"i.issued_at": *filter.DateTo})
	}
	return conds
}

// ListInvoices returns the journal page, newest first.
func (r *InvoiceRepo) ListInvoices(ctx context.Context, filter settlement.ListFilter) (*settlement.ListResult, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	conds := filterConditions(filter)

	countBuilder := sq.Select("COUNT(*)").
		From(invoiceTable + " i").
		PlaceholderFormat(sq.Dollar)
	for _, c := range conds {
		countBuilder = countBuilder.Where(c)
	}
	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	var total int64
	if err := r.querier(ctx).QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, apperror.NewDatabase(err)
	}

	columns := append(invoiceColumns("i"), "s.name AS seller_name")
	builder := sq.Select(columns...).
		From(invoiceTable + " i").
		Join("sellers s ON s.id = i.seller_id").
		OrderBy("i.number DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		PlaceholderFormat(sq.Dollar)
	for _, c := range conds {
		builder = builder.Where(c)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	var items []settlement.InvoiceSummary
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, query, args...); err != nil {
		return nil, apperror.NewDatabase(err)
	}

	return &settlement.ListResult{Items: items, Total: total}, nil
}
