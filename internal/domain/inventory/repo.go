package inventory

import (
	"context"

	"breadroute/internal/core/id"
)

// Repository is the storage contract for inventory state and cycles.
//
// Write methods are always called inside a transaction opened by the service;
// read methods work both inside and outside one.
type Repository interface {
	// GetCycle returns the seller's cycle row, or a not-found error for an
	// unknown seller. Every seller has a cycle row from creation on.
	GetCycle(ctx context.Context, sellerID id.ID) (*Cycle, error)

	// GetCycleForUpdate locks the cycle row for the transaction.
	GetCycleForUpdate(ctx context.Context, sellerID id.ID) (*Cycle, error)

	// SetCycleSlot moves the seller's cycle to the given slot.
	SetCycleSlot(ctx context.Context, sellerID id.ID, slot Slot) error

	// GetStates returns all state rows for the seller.
	GetStates(ctx context.Context, sellerID id.ID) ([]ProductState, error)

	// GetRows returns state joined with product, ordered by product sort order.
	GetRows(ctx context.Context, sellerID id.ID) ([]Row, error)

	// SetSlotQuantities overwrites one slot column for all given products.
	SetSlotQuantities(ctx context.Context, sellerID id.ID, slot Slot, quantities map[id.ID]int64) error

	// ApplyAdjustments overwrites all four quantity columns per product.
	ApplyAdjustments(ctx context.Context, sellerID id.ID, items []Adjustment) error

	// ResetAfterSettlement sets carry per product and zeroes all recharges.
	ResetAfterSettlement(ctx context.Context, sellerID id.ID, carry map[id.ID]int64) error

	// MaterializeForSeller creates zeroed state rows for every product plus
	// the cycle row at slot 1. Called from seller creation, same transaction.
	MaterializeForSeller(ctx context.Context, sellerID id.ID) error

	// MaterializeForProduct creates zeroed state rows for every seller.
	// Called from product creation, same transaction.
	MaterializeForProduct(ctx context.Context, productID id.ID) error
}
