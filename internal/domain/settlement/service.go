package settlement

import (
	"context"
	"time"

	"breadroute/internal/core/apperror"
	"breadroute/internal/core/id"
	"breadroute/internal/core/tx"
	"breadroute/internal/domain"
	"breadroute/internal/domain/inventory"
	"breadroute/pkg/logger"
)

// Clock provides issue timestamps. Injectable so settlement tests can pin
// time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// Service commits settlements and serves the invoice read models.
//
// CommitSettlement is NOT idempotent: a retry after a successful commit
// settles the already-reset state and produces a different invoice. Callers
// must check the journal before resubmitting on an ambiguous failure.
type Service struct {
	repo      Repository
	inventory inventory.Repository
	txManager tx.ReadOnlyManager
	audit     domain.Auditor
	clock     Clock
}

// NewService creates the settlement service with the system clock.
func NewService(repo Repository, invRepo inventory.Repository, txManager tx.ReadOnlyManager, audit domain.Auditor) *Service {
	return &Service{
		repo:      repo,
		inventory: invRepo,
		txManager: txManager,
		audit:     audit,
		clock:     systemClock{},
	}
}

// WithClock replaces the clock. Returns the service for chaining.
func (s *Service) WithClock(c Clock) *Service {
	s.clock = c
	return s
}

// CommitSettlement closes the seller's cycle in one serializable
// transaction: validate the declaration against the live state, compute the
// aggregates, persist the invoice with its item snapshots, reset state
// (carry := final, recharges zeroed) and reopen the cycle at slot 1.
func (s *Service) CommitSettlement(ctx context.Context, decl *Declaration) (*Invoice, error) {
	if err := decl.Validate(ctx); err != nil {
		return nil, err
	}

	var invoice *Invoice
	err := s.txManager.RunSerializable(ctx, func(ctx context.Context) error {
		// Locking the cycle row orders concurrent recharge and settlement
		// commits for the same seller; also the seller existence check.
		if _, err := s.inventory.GetCycleForUpdate(ctx, decl.SellerID); err != nil {
			return err
		}

		rows, err := s.inventory.GetRows(ctx, decl.SellerID)
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			return apperror.NewValidation("seller has no inventory state to settle").
				WithDetail("seller_id", decl.SellerID)
		}

		comp, err := Compute(decl.SellerID, rows, decl.Lines, decl.CommissionPercent)
		if err != nil {
			return err
		}

		invoice = &Invoice{
			ID:                id.New(),
			SellerID:          decl.SellerID,
			IssuedAt:          s.clock.Now(),
			CommissionPercent: decl.CommissionPercent,
			Subtotal:          comp.Subtotal,
			ExemptTotal:       comp.ExemptTotal,
			ChangesTotal:      comp.ChangesTotal,
			CommissionBase:    comp.CommissionBase,
			CommissionValue:   comp.CommissionValue,
			PayableTotal:      comp.PayableTotal,
			CreatedAt:         s.clock.Now(),
		}
		if err := s.repo.CreateInvoice(ctx, invoice); err != nil {
			return err
		}

		items := comp.Items
		for i := range items {
			items[i].InvoiceID = invoice.ID
		}
		if err := s.repo.CreateItems(ctx, items); err != nil {
			return err
		}

		if err := s.inventory.ResetAfterSettlement(ctx, decl.SellerID, comp.Carry); err != nil {
			return err
		}
		if err := s.inventory.SetCycleSlot(ctx, decl.SellerID, inventory.SlotOne); err != nil {
			return err
		}

		return s.audit.Record(ctx, "invoice", invoice.ID.String(), "commit", invoice)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "settlement committed",
		"seller_id", decl.SellerID,
		"invoice_id", invoice.ID,
		"invoice_number", invoice.Number,
		"payable_total", invoice.PayableTotal,
	)
	return invoice, nil
}

// GetInvoice returns the stored invoice with its item snapshots. Aggregates
// come straight from the row, never recomputed.
func (s *Service) GetInvoice(ctx context.Context, invoiceID id.ID) (*InvoiceWithItems, error) {
	if id.IsNil(invoiceID) {
		return nil, apperror.NewValidation("invoice id is required")
	}
	return s.repo.GetInvoice(ctx, invoiceID)
}

// ListInvoices returns the invoice journal page for the filter.
func (s *Service) ListInvoices(ctx context.Context, filter ListFilter) (*ListResult, error) {
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateTo.Before(*filter.DateFrom) {
		return nil, apperror.NewValidation("date_to must not precede date_from")
	}
	return s.repo.ListInvoices(ctx, filter)
}
