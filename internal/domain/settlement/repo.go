package settlement

import (
	"context"

	"breadroute/internal/core/id"
)

// Repository is the storage contract for invoices.
type Repository interface {
	// CreateInvoice inserts the invoice and fills in its journal number.
	CreateInvoice(ctx context.Context, inv *Invoice) error

	// CreateItems inserts all item snapshots for one invoice.
	CreateItems(ctx context.Context, items []InvoiceItem) error

	// GetInvoice returns the invoice with seller name and ordered items,
	// or a not-found error.
	GetInvoice(ctx context.Context, invoiceID id.ID) (*InvoiceWithItems, error)

	// ListInvoices returns the journal page matching the filter, newest first.
	ListInvoices(ctx context.Context, filter ListFilter) (*ListResult, error)
}
