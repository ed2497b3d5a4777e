// Package reports serves read-only aggregations over the invoice tables.
// Nothing here mutates state; everything is derived from settled invoices.
package reports

import (
	"time"

	"breadroute/internal/core/id"
)

// Filter narrows a report to a seller, a single invoice, or a date range.
// All fields optional; nil means unfiltered.
type Filter struct {
	SellerID      *id.ID
	InvoiceNumber *int64
	DateFrom      *time.Time
	DateTo        *time.Time
}

// SalesSummary aggregates all matching invoices into one row.
type SalesSummary struct {
	InvoiceCount    int64 `db:"invoice_count" json:"invoiceCount"`
	Subtotal        int64 `db:"subtotal" json:"subtotal"`
	ExemptTotal     int64 `db:"exempt_total" json:"exemptTotal"`
	ChangesTotal    int64 `db:"changes_total" json:"changesTotal"`
	CommissionValue int64 `db:"commission_value" json:"commissionValue"`
	PayableTotal    int64 `db:"payable_total" json:"payableTotal"`
}

// ProductSales is per-product movement across matching invoices.
type ProductSales struct {
	ProductID    id.ID  `db:"product_id" json:"productId"`
	ProductName  string `db:"product_name" json:"productName"`
	UnitsSold    int64  `db:"units_sold" json:"unitsSold"`
	SalesTotal   int64  `db:"sales_total" json:"salesTotal"`
	ChangesUnits int64  `db:"changes_units" json:"changesUnits"`
	ChangesValue int64  `db:"changes_value" json:"changesValue"`
}

// SellerSales is per-seller totals across matching invoices.
type SellerSales struct {
	SellerID        id.ID  `db:"seller_id" json:"sellerId"`
	SellerName      string `db:"seller_name" json:"sellerName"`
	InvoiceCount    int64  `db:"invoice_count" json:"invoiceCount"`
	Subtotal        int64  `db:"subtotal" json:"subtotal"`
	ExemptTotal     int64  `db:"exempt_total" json:"exemptTotal"`
	ChangesTotal    int64  `db:"changes_total" json:"changesTotal"`
	CommissionValue int64  `db:"commission_value" json:"commissionValue"`
	PayableTotal    int64  `db:"payable_total" json:"payableTotal"`
}
