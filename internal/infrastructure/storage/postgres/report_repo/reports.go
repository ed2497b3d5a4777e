// Package reportrepo runs the read-side aggregation queries over the
// invoice tables.
package reportrepo

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"breadroute/internal/core/apperror"
	"breadroute/internal/domain/reports"
	"breadroute/internal/infrastructure/storage/postgres"
)

// ReportRepo implements reports.Repository.
type ReportRepo struct {
	txManager *postgres.TxManager
}

var _ reports.Repository = (*ReportRepo)(nil)

// NewReportRepo creates the report repository.
func NewReportRepo(txManager *postgres.TxManager) *ReportRepo {
	return &ReportRepo{txManager: txManager}
}

func applyFilter(builder sq.SelectBuilder, filter reports.Filter) sq.SelectBuilder {
	if filter.SellerID != nil {
		builder = builder.Where(sq.Eq{"i.seller_id": *filter.SellerID})
	}
	if filter.InvoiceNumber != nil {
		builder = builder.Where(sq.Eq{"i.number": *filter.InvoiceNumber})
	}
	if filter.DateFrom != nil {
		builder = builder.Where(sq.GtOrEq{"i.issued_at": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		builder = builder.Where(sq.LtOrEq{"i.issued_at": *filter.DateTo})
	}
	return builder
}

// SalesSummary aggregates all matching invoices into one row.
func (r *ReportRepo) SalesSummary(ctx context.Context, filter reports.Filter) (*reports.SalesSummary, error) {
	builder := sq.Select(
		"COUNT(*) AS invoice_count",
		"COALESCE(SUM(i.subtotal), 0) AS subtotal",
		"COALESCE(SUM(i.exempt_total), 0) AS exempt_total",
		"COALESCE(SUM(i.changes_total), 0) AS changes_total",
		"COALESCE(SUM(i.commission_value), 0) AS commission_value",
		"COALESCE(SUM(i.payable_total), 0) AS payable_total",
	).
		From("invoices i").
		PlaceholderFormat(sq.Dollar)
	builder = applyFilter(builder, filter)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	var summary reports.SalesSummary
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &summary, query, args...); err != nil {
		return nil, apperror.NewDatabase(err)
	}
	return &summary, nil
}

// ProductsSold returns per-product movement, best sellers first.
func (r *ReportRepo) ProductsSold(ctx context.Context, filter reports.Filter) ([]reports.ProductSales, error) {
	builder := sq.Select(
		"it.product_id",
		"it.product_name",
		"COALESCE(SUM(it.billed_qty), 0) AS units_sold",
		"COALESCE(SUM(it.line_total), 0) AS sales_total",
		"COALESCE(SUM(it.changes_qty), 0) AS changes_units",
		"COALESCE(SUM(it.changes_value), 0) AS changes_value",
	).
		From("invoice_items it").
		Join("invoices i ON i.id = it.invoice_id").
		GroupBy("it.product_id", "it.product_name").
		OrderBy("sales_total DESC").
		PlaceholderFormat(sq.Dollar)
	builder = applyFilter(builder, filter)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	var rows []reports.ProductSales
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &rows, query, args...); err != nil {
		return nil, apperror.NewDatabase(err)
	}
	return rows, nil
}

// SalesBySeller returns per-seller totals, highest payable first.
func (r *ReportRepo) SalesBySeller(ctx context.Context, filter reports.Filter) ([]reports.SellerSales, error) {
	builder := sq.Select(
		"i.seller_id",
		"s.name AS seller_name",
		"COUNT(*) AS invoice_count",
		"COALESCE(SUM(i.subtotal), 0) AS subtotal",
		"COALESCE(SUM(i.exempt_total), 0) AS exempt_total",
		"COALESCE(SUM(i.changes_total), 0) AS changes_total",
		"COALESCE(SUM(i.commission_value), 0) AS commission_value",
		"COALESCE(SUM(i.payable_total), 0) AS payable_total",
	).
		From("invoices i").
		Join("sellers s ON s.id = i.seller_id").
		GroupBy("i.seller_id", "s.name").
		OrderBy("payable_total DESC").
		PlaceholderFormat(sq.Dollar)
	builder = applyFilter(builder, filter)

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	var rows []reports.SellerSales
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &rows, query, args...); err != nil {
		return nil, apperror.NewDatabase(err)
	}
	return rows, nil
}
