package inventory

import (
	"context"

	"breadroute/internal/core/apperror"
	"breadroute/internal/core/id"
	"breadroute/internal/core/tx"
	"breadroute/internal/domain"
	"breadroute/pkg/logger"
)

// Service drives the recharge cycle: reading a seller's inventory picture,
// committing recharge batches into the open slot, and administrative state
// corrections.
type Service struct {
	repo      Repository
	txManager tx.ReadOnlyManager
	audit     domain.Auditor
}

// NewService creates the inventory service.
func NewService(repo Repository, txManager tx.ReadOnlyManager, audit domain.Auditor) *Service {
	return &Service{repo: repo, txManager: txManager, audit: audit}
}

// GetInventory returns the seller's full state joined with product data plus
// the next writable slot. Both reads happen in one read-only transaction so
// the slot matches the quantities.
func (s *Service) GetInventory(ctx context.Context, sellerID id.ID) (*View, error) {
	if id.IsNil(sellerID) {
		return nil, apperror.NewValidation("seller id is required")
	}

	var view *View
	err := s.txManager.ReadOnly(ctx, func(ctx context.Context) error {
		cycle, err := s.repo.GetCycle(ctx, sellerID)
		if err != nil {
			return err
		}
		rows, err := s.repo.GetRows(ctx, sellerID)
		if err != nil {
			return err
		}
		view = &View{SellerID: sellerID, NextSlot: cycle.CurrentSlot, Items: rows}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// CommitRecharge writes the batch into the seller's open slot and advances
// the cycle. The whole slot column is overwritten: products missing from the
// batch are set to zero, including anything a prior AdjustState wrote into
// that slot, and re-submitting the same open slot replaces the prior values
// instead of accumulating.
func (s *Service) CommitRecharge(ctx context.Context, batch *RechargeBatch) (*RechargeResult, error) {
	if err := batch.Validate(ctx); err != nil {
		return nil, err
	}

	var result *RechargeResult
	err := s.txManager.RunSerializable(ctx, func(ctx context.Context) error {
		cycle, err := s.repo.GetCycleForUpdate(ctx, batch.SellerID)
		if err != nil {
			return err
		}
		if cycle.CurrentSlot.Closed() {
			return apperror.NewCycleExhausted(batch.SellerID)
		}

		states, err := s.repo.GetStates(ctx, batch.SellerID)
		if err != nil {
			return err
		}

		quantities := make(map[id.ID]int64, len(states))
		for _, st := range states {
			quantities[st.ProductID] = 0
		}
		for _, line := range batch.Lines {
			if _, ok := quantities[line.ProductID]; !ok {
				return apperror.NewUnknownProductState(batch.SellerID, line.ProductID)
			}
			quantities[line.ProductID] = line.Qty
		}

		if err := s.repo.SetSlotQuantities(ctx, batch.SellerID, cycle.CurrentSlot, quantities); err != nil {
			return err
		}

		next := cycle.CurrentSlot.Advance()
		if err := s.repo.SetCycleSlot(ctx, batch.SellerID, next); err != nil {
			return err
		}

		result = &RechargeResult{PreviousSlot: cycle.CurrentSlot, NextSlot: next}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "recharge committed",
		"seller_id", batch.SellerID,
		"slot", result.PreviousSlot.String(),
		"next_slot", result.NextSlot.String(),
	)
	return result, nil
}

// AdjustState overwrites all four quantity columns for the given products.
// This is the administrative correction path and bypasses the cycle; the
// adjustment is audited.
func (s *Service) AdjustState(ctx context.Context, sellerID id.ID, items []Adjustment) error {
	if id.IsNil(sellerID) {
		return apperror.NewValidation("seller id is required")
	}
	if len(items) == 0 {
		return apperror.NewValidation("adjustment batch is empty")
	}

	seen := make(map[id.ID]bool, len(items))
	for i := range items {
		if err := items[i].Validate(ctx); err != nil {
			return err
		}
		if seen[items[i].ProductID] {
			return apperror.NewValidation("duplicate product in adjustment batch").
				WithDetail("product_id", items[i].ProductID)
		}
		seen[items[i].ProductID] = true
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		// Cycle row doubles as the seller existence check.
		if _, err := s.repo.GetCycle(ctx, sellerID); err != nil {
			return err
		}

		states, err := s.repo.GetStates(ctx, sellerID)
		if err != nil {
			return err
		}
		known := make(map[id.ID]bool, len(states))
		for _, st := range states {
			known[st.ProductID] = true
		}
		for _, item := range items {
			if !known[item.ProductID] {
				return apperror.NewUnknownProductState(sellerID, item.ProductID)
			}
		}

		if err := s.repo.ApplyAdjustments(ctx, sellerID, items); err != nil {
			return err
		}

		return s.audit.Record(ctx, "inventory_state", sellerID.String(), "adjust", items)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "inventory state adjusted", "seller_id", sellerID, "products", len(items))
	return nil
}
