// Package settlement closes a seller's inventory cycle into an immutable
// invoice and resets state for the next cycle.
package settlement

import (
	"context"
	"time"

	"breadroute/internal/core/apperror"
	"breadroute/internal/core/id"
)

// Invoice holds the six computed aggregates of one settlement. Immutable
// once created; reports and receipts read it, nothing rewrites it.
type Invoice struct {
	ID       id.ID `db:"id"`
	Number   int64 `db:"number"`
	SellerID id.ID `db:"seller_id"`

	IssuedAt          time.Time `db:"issued_at"`
	CommissionPercent int       `db:"commission_percent"`

	Subtotal        int64 `db:"subtotal"`
	ExemptTotal     int64 `db:"exempt_total"`
	ChangesTotal    int64 `db:"changes_total"`
	CommissionBase  int64 `db:"commission_base"`
	CommissionValue int64 `db:"commission_value"`
	PayableTotal    int64 `db:"payable_total"`

	CreatedAt time.Time `db:"created_at"`
}

// InvoiceItem is the frozen per-product snapshot behind an invoice line.
// It captures the full pre-settlement state so the invoice can be
// regenerated identically at any later time.
type InvoiceItem struct {
	InvoiceID id.ID `db:"invoice_id"`
	ProductID id.ID `db:"product_id"`

	// Product snapshot at settlement time.
	ProductName      string `db:"product_name"`
	SortOrder        int    `db:"sort_order"`
	CommissionExempt bool   `db:"commission_exempt"`
	Price            int64  `db:"price"`

	// State snapshot.
	Carry     int64 `db:"carry"`
	Recharge1 int64 `db:"recharge_1"`
	Recharge2 int64 `db:"recharge_2"`
	Recharge3 int64 `db:"recharge_3"`
	Available int64 `db:"available"`

	// Declared and computed quantities.
	FinalQty   int64 `db:"final_qty"`
	ChangesQty int64 `db:"changes_qty"`
	BilledQty  int64 `db:"billed_qty"`

	LineTotal    int64 `db:"line_total"`
	ChangesValue int64 `db:"changes_value"`
}

// Line is one product's declaration in a settlement request: how much is
// left unsold and how much came back as changes (returns).
type Line struct {
	ProductID  id.ID
	FinalQty   int64
	ChangesQty int64
}

// Declaration is a full settlement request for one seller.
type Declaration struct {
	SellerID          id.ID
	CommissionPercent int
	Lines             []Line
}

// Validate checks declaration invariants that need no storage access.
func (d *Declaration) Validate(ctx context.Context) error {
	if id.IsNil(d.SellerID) {
		return apperror.NewValidation("seller id is required")
	}
	if d.CommissionPercent < 0 || d.CommissionPercent > 100 {
		return apperror.NewValidation("commission percent must be between 0 and 100").
			WithDetail("commission_percent", d.CommissionPercent)
	}
	if len(d.Lines) == 0 {
		return apperror.NewValidation("settlement has no lines")
	}

	seen := make(map[id.ID]bool, len(d.Lines))
	for _, line := range d.Lines {
		if id.IsNil(line.ProductID) {
			return apperror.NewValidation("product id is required on every settlement line")
		}
		if seen[line.ProductID] {
			return apperror.NewValidation("duplicate product in settlement lines").
				WithDetail("product_id", line.ProductID)
		}
		seen[line.ProductID] = true

		if line.FinalQty < 0 || line.ChangesQty < 0 {
			return apperror.NewValidation("settlement quantities must not be negative").
				WithDetail("product_id", line.ProductID)
		}
	}
	return nil
}

// InvoiceWithItems is the read model for one invoice: aggregates, the
// seller's name at read time, and ordered item snapshots.
type InvoiceWithItems struct {
	Invoice
	SellerName string        `db:"seller_name"`
	Items      []InvoiceItem `db:"-"`
}

// InvoiceSummary is one row of the invoice journal.
type InvoiceSummary struct {
	Invoice
	SellerName string `db:"seller_name"`
}

// ListFilter narrows the invoice journal.
type ListFilter struct {
	SellerID *id.ID
	Number   *int64
	DateFrom *time.Time
	DateTo   *time.Time
	Limit    int
	Offset   int
}

// ListResult is a page of the invoice journal.
type ListResult struct {
	Items []InvoiceSummary `json:"items"`
	Total int64            `json:"total"`
}
