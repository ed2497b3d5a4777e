package settlement

import (
	"github.com/shopspring/decimal"

	"breadroute/internal/core/apperror"
	"breadroute/internal/core/id"
	"breadroute/internal/domain/inventory"
)

// Computation is the result of settling a state snapshot against a
// declaration, before anything is persisted.
type Computation struct {
	Items []InvoiceItem

	Subtotal        int64
	ExemptTotal     int64
	ChangesTotal    int64
	CommissionBase  int64
	CommissionValue int64
	PayableTotal    int64

	// Carry holds the post-settlement carry per product (the declared
	// final quantity).
	Carry map[id.ID]int64
}

// Compute settles the given state rows against the declared lines. Pure:
// no storage access, all validation against the in-memory snapshot.
//
// Every line must match a state row and every state row must have a line.
// The cover-all rule is fail-closed: a product created mid-cycle still has
// a (zeroed) state row, so the caller declares final=0 for it.
func Compute(sellerID id.ID, rows []inventory.Row, lines []Line, commissionPercent int) (*Computation, error) {
	declared := make(map[id.ID]Line, len(lines))
	for _, line := range lines {
		declared[line.ProductID] = line
	}

	known := make(map[id.ID]bool, len(rows))
	for _, row := range rows {
		known[row.ProductID] = true
	}
	for _, line := range lines {
		if !known[line.ProductID] {
			return nil, apperror.NewUnknownProductState(sellerID, line.ProductID)
		}
	}

	comp := &Computation{
		Items: make([]InvoiceItem, 0, len(rows)),
		Carry: make(map[id.ID]int64, len(rows)),
	}

	for _, row := range rows {
		line, ok := declared[row.ProductID]
		if !ok {
			return nil, apperror.NewValidation("settlement must declare every product with inventory state").
				WithDetail("product_id", row.ProductID)
		}

		available := row.Available()
		if line.FinalQty+line.ChangesQty > available {
			return nil, apperror.NewInsufficientInventory(row.ProductID, line.FinalQty, line.ChangesQty, available)
		}

		billed := available - line.FinalQty - line.ChangesQty
		lineTotal := billed * row.Price
		changesValue := line.ChangesQty * row.Price

		comp.Items = append(comp.Items, InvoiceItem{
			ProductID:        row.ProductID,
			ProductName:      row.ProductName,
			SortOrder:        row.SortOrder,
			CommissionExempt: row.CommissionExempt,
			Price:            row.Price,
			Carry:            row.Carry,
			Recharge1:        row.Recharge1,
			Recharge2:        row.Recharge2,
			Recharge3:        row.Recharge3,
			Available:        available,
			FinalQty:         line.FinalQty,
			ChangesQty:       line.ChangesQty,
			BilledQty:        billed,
			LineTotal:        lineTotal,
			ChangesValue:     changesValue,
		})

		comp.Subtotal += lineTotal
		comp.ChangesTotal += changesValue
		if row.CommissionExempt {
			comp.ExemptTotal += lineTotal
		}
		comp.Carry[row.ProductID] = line.FinalQty
	}

	comp.CommissionBase = comp.Subtotal - comp.ExemptTotal
	comp.CommissionValue = commission(comp.CommissionBase, commissionPercent)
	comp.PayableTotal = comp.Subtotal - comp.CommissionValue

	return comp, nil
}

// commission rounds base*percent/100 to the nearest whole currency unit,
// half away from zero.
func commission(base int64, percent int) int64 {
	return decimal.NewFromInt(base).
		Mul(decimal.NewFromInt(int64(percent))).
		Div(decimal.NewFromInt(100)).
		Round(0).
		IntPart()
}
