// Package inventory holds per-seller product quantities and the recharge
// cycle that feeds them.
package inventory

import (
	"context"
	"time"

	"breadroute/internal/core/apperror"
	"breadroute/internal/core/id"
)

// Slot identifies which recharge column of the cycle is open.
// Zero means the cycle is closed and only settlement can reopen it.
type Slot int

const (
	CycleClosed Slot = 0
	SlotOne     Slot = 1
	SlotTwo     Slot = 2
	SlotThree   Slot = 3
)

// Valid reports whether the value is one of the defined slots.
func (s Slot) Valid() bool {
	return s >= CycleClosed && s <= SlotThree
}

// Closed reports whether the cycle has no open slot left.
func (s Slot) Closed() bool {
	return s == CycleClosed
}

// Advance returns the slot that opens after committing into this one.
// The third slot closes the cycle; a closed cycle stays closed.
func (s Slot) Advance() Slot {
	switch s {
	case SlotOne:
		return SlotTwo
	case SlotTwo:
		return SlotThree
	default:
		return CycleClosed
	}
}

// Column returns the state table column backing this slot.
func (s Slot) Column() string {
	switch s {
	case SlotOne:
		return "recharge_1"
	case SlotTwo:
		return "recharge_2"
	case SlotThree:
		return "recharge_3"
	default:
		return ""
	}
}

func (s Slot) String() string {
	if s.Closed() {
		return "closed"
	}
	return s.Column()
}

// ProductState is one seller/product inventory row: quantity carried over
// from the last settlement plus up to three recharges.
type ProductState struct {
	SellerID  id.ID     `db:"seller_id"`
	ProductID id.ID     `db:"product_id"`
	Carry     int64     `db:"carry"`
	Recharge1 int64     `db:"recharge_1"`
	Recharge2 int64     `db:"recharge_2"`
	Recharge3 int64     `db:"recharge_3"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Available is the total quantity the seller is accountable for.
func (s *ProductState) Available() int64 {
	return s.Carry + s.Recharge1 + s.Recharge2 + s.Recharge3
}

// SlotQty returns the quantity recorded in the given slot.
func (s *ProductState) SlotQty(slot Slot) int64 {
	switch slot {
	case SlotOne:
		return s.Recharge1
	case SlotTwo:
		return s.Recharge2
	case SlotThree:
		return s.Recharge3
	default:
		return 0
	}
}

// SetSlotQty writes qty into the given slot. No-op for a closed cycle.
func (s *ProductState) SetSlotQty(slot Slot, qty int64) {
	switch slot {
	case SlotOne:
		s.Recharge1 = qty
	case SlotTwo:
		s.Recharge2 = qty
	case SlotThree:
		s.Recharge3 = qty
	}
}

// Cycle tracks which slot is open for a seller.
type Cycle struct {
	SellerID    id.ID     `db:"seller_id"`
	CurrentSlot Slot      `db:"current_slot"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// Row is a state row joined with its product for presentation: the seller's
// inventory screen shows quantities alongside product name and price.
type Row struct {
	ProductID        id.ID  `db:"product_id"`
	ProductName      string `db:"product_name"`
	Price            int64  `db:"price"`
	SortOrder        int    `db:"sort_order"`
	CommissionExempt bool   `db:"commission_exempt"`
	Carry            int64  `db:"carry"`
	Recharge1        int64  `db:"recharge_1"`
	Recharge2        int64  `db:"recharge_2"`
	Recharge3        int64  `db:"recharge_3"`
}

// Available is the total quantity on the row.
func (r *Row) Available() int64 {
	return r.Carry + r.Recharge1 + r.Recharge2 + r.Recharge3
}

// View is the full inventory picture for one seller.
type View struct {
	SellerID id.ID
	NextSlot Slot
	Items    []Row
}

// RechargeLine is one product's quantity in a recharge batch.
type RechargeLine struct {
	ProductID id.ID
	Qty       int64
}

// RechargeBatch is a day's delivery for one seller.
type RechargeBatch struct {
	SellerID id.ID
	Lines    []RechargeLine
}

// Validate checks batch invariants that need no storage access.
func (b *RechargeBatch) Validate(ctx context.Context) error {
	if id.IsNil(b.SellerID) {
		return apperror.NewValidation("seller id is required")
	}
	if len(b.Lines) == 0 {
		return apperror.NewEmptyRecharge()
	}

	seen := make(map[id.ID]bool, len(b.Lines))
	positive := false
	for _, line := range b.Lines {
		if id.IsNil(line.ProductID) {
			return apperror.NewValidation("product id is required on every recharge line")
		}
		if seen[line.ProductID] {
			return apperror.NewValidation("duplicate product in recharge batch").
				WithDetail("product_id", line.ProductID)
		}
		seen[line.ProductID] = true

		if line.Qty < 0 {
			return apperror.NewValidation("recharge quantity must not be negative").
				WithDetail("product_id", line.ProductID).
				WithDetail("qty", line.Qty)
		}
		if line.Qty > 0 {
			positive = true
		}
	}

	if !positive {
		return apperror.NewEmptyRecharge()
	}
	return nil
}

// RechargeResult reports the slot transition a committed batch caused.
type RechargeResult struct {
	PreviousSlot Slot
	NextSlot     Slot
}

// Adjustment is a direct administrative correction of one state row.
type Adjustment struct {
	ProductID id.ID
	Carry     int64
	Recharge1 int64
	Recharge2 int64
	Recharge3 int64
}

// Validate checks that all quantities are non-negative.
func (a *Adjustment) Validate(ctx context.Context) error {
	if id.IsNil(a.ProductID) {
		return apperror.NewValidation("product id is required on every adjustment")
	}
	for name, qty := range map[string]int64{
		"carry":      a.Carry,
		"recharge_1": a.Recharge1,
		"recharge_2": a.Recharge2,
		"recharge_3": a.Recharge3,
	} {
		if qty < 0 {
			return apperror.NewValidation("state quantities must not be negative").
				WithDetail("product_id", a.ProductID).
				WithDetail("field", name)
		}
	}
	return nil
}
