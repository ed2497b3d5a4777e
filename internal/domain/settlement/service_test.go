package settlement

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"breadroute/internal/core/apperror"
	"breadroute/internal/core/id"
	"breadroute/internal/domain/inventory"
)

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func (passthroughTx) RunSerializable(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func (passthroughTx) ReadOnly(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

type nopAuditor struct{}

func (nopAuditor) Record(context.Context, string, string, string, any) error { return nil }

type fixedClock struct{ at time.Time }

func (c fixedClock) Now() time.Time { return c.at }

// fakeInventory implements inventory.Repository over in-memory state.
type fakeInventory struct {
	cycles map[id.ID]*inventory.Cycle
	states map[id.ID]map[id.ID]*inventory.ProductState
	rows   map[id.ID][]inventory.Row
}

func newFakeInventory() *fakeInventory {
	return &fakeInventory{
		cycles: make(map[id.ID]*inventory.Cycle),
		states: make(map[id.ID]map[id.ID]*inventory.ProductState),
		rows:   make(map[id.ID][]inventory.Row),
	}
}

func (f *fakeInventory) addSeller(sellerID id.ID, slot inventory.Slot, rows ...inventory.Row) {
	f.cycles[sellerID] = &inventory.Cycle{SellerID: sellerID, CurrentSlot: slot}
	f.states[sellerID] = make(map[id.ID]*inventory.ProductState)
	for _, row := range rows {
		f.states[sellerID][row.ProductID] = &inventory.ProductState{
			SellerID:  sellerID,
			ProductID: row.ProductID,
			Carry:     row.Carry,
			Recharge1: row.Recharge1,
			Recharge2: row.Recharge2,
			Recharge3: row.Recharge3,
		}
	}
	f.rows[sellerID] = rows
}

func (f *fakeInventory) GetCycle(_ context.Context, sellerID id.ID) (*inventory.Cycle, error) {
	c, ok := f.cycles[sellerID]
	if !ok {
		return nil, apperror.NewNotFound("seller", sellerID.String())
	}
	cp := *c
	return &cp, nil
}

func (f *fakeInventory) GetCycleForUpdate(ctx context.Context, sellerID id.ID) (*inventory.Cycle, error) {
	return f.GetCycle(ctx, sellerID)
}

func (f *fakeInventory) SetCycleSlot(_ context.Context, sellerID id.ID, slot inventory.Slot) error {
	f.cycles[sellerID].CurrentSlot = slot
	return nil
}

func (f *fakeInventory) GetStates(_ context.Context, sellerID id.ID) ([]inventory.ProductState, error) {
	var out []inventory.ProductState
	for _, st := range f.states[sellerID] {
		out = append(out, *st)
	}
	return out, nil
}

func (f *fakeInventory) GetRows(_ context.Context, sellerID id.ID) ([]inventory.Row, error) {
	return f.rows[sellerID], nil
}

func (f *fakeInventory) SetSlotQuantities(context.Context, id.ID, inventory.Slot, map[id.ID]int64) error {
	return nil
}

func (f *fakeInventory) ApplyAdjustments(context.Context, id.ID, []inventory.Adjustment) error {
	return nil
}

func (f *fakeInventory) ResetAfterSettlement(_ context.Context, sellerID id.ID, carry map[id.ID]int64) error {
	for pid, qty := range carry {
		st := f.states[sellerID][pid]
		st.Carry = qty
		st.Recharge1, st.Recharge2, st.Recharge3 = 0, 0, 0
	}
	return nil
}

func (f *fakeInventory) MaterializeForSeller(context.Context, id.ID) error  { return nil }
func (f *fakeInventory) MaterializeForProduct(context.Context, id.ID) error { return nil }

// fakeInvoiceRepo stores invoices in memory and numbers them sequentially.
type fakeInvoiceRepo struct {
	invoices map[id.ID]*Invoice
	items    map[id.ID][]InvoiceItem
	nextNum  int64
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{
		invoices: make(map[id.ID]*Invoice),
		items:    make(map[id.ID][]InvoiceItem),
		nextNum:  1,
	}
}

func (f *fakeInvoiceRepo) CreateInvoice(_ context.Context, inv *Invoice) error {
	inv.Number = f.nextNum
	f.nextNum++
	cp := *inv
	f.invoices[inv.ID] = &cp
	return nil
}

func (f *fakeInvoiceRepo) CreateItems(_ context.Context, items []InvoiceItem) error {
	if len(items) > 0 {
		f.items[items[0].InvoiceID] = items
	}
	return nil
}

func (f *fakeInvoiceRepo) GetInvoice(_ context.Context, invoiceID id.ID) (*InvoiceWithItems, error) {
	inv, ok := f.invoices[invoiceID]
	if !ok {
		return nil, apperror.NewNotFound("invoice", invoiceID.String())
	}
	return &InvoiceWithItems{Invoice: *inv, Items: f.items[invoiceID]}, nil
}

func (f *fakeInvoiceRepo) ListInvoices(context.Context, ListFilter) (*ListResult, error) {
	return &ListResult{}, nil
}

func TestCommitSettlement(t *testing.T) {
	sellerID := id.New()
	productID := id.New()

	inv := newFakeInventory()
	// Post-cycle state: one product, ten units recharged into slot 1,
	// cycle fully consumed.
	inv.addSeller(sellerID, inventory.CycleClosed, inventory.Row{
		ProductID:   productID,
		ProductName: "loaf",
		Price:       100,
		Recharge1:   10,
	})

	repo := newFakeInvoiceRepo()
	issuedAt := time.Date(2026, 3, 14, 7, 30, 0, 0, time.UTC)
	svc := NewService(repo, inv, passthroughTx{}, nopAuditor{}).WithClock(fixedClock{at: issuedAt})

	invoice, err := svc.CommitSettlement(context.Background(), &Declaration{
		SellerID:          sellerID,
		CommissionPercent: 10,
		Lines:             []Line{{ProductID: productID, FinalQty: 2, ChangesQty: 1}},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), invoice.Number)
	assert.Equal(t, issuedAt, invoice.IssuedAt)
	assert.Equal(t, int64(700), invoice.Subtotal)
	assert.Equal(t, int64(0), invoice.ExemptTotal)
	assert.Equal(t, int64(100), invoice.ChangesTotal)
	assert.Equal(t, int64(700), invoice.CommissionBase)
	assert.Equal(t, int64(70), invoice.CommissionValue)
	assert.Equal(t, int64(630), invoice.PayableTotal)

	// State reset: carry takes the final count, recharges zeroed, cycle
	// reopens at slot 1.
	st := inv.states[sellerID][productID]
	assert.Equal(t, int64(2), st.Carry)
	assert.Equal(t, int64(0), st.Recharge1)
	assert.Equal(t, inventory.SlotOne, inv.cycles[sellerID].CurrentSlot)

	// Stored snapshot is readable with items.
	stored, err := svc.GetInvoice(context.Background(), invoice.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, int64(7), stored.Items[0].BilledQty)
	assert.Equal(t, int64(10), stored.Items[0].Recharge1)
}

func TestCommitSettlement_FailureLeavesStateUntouched(t *testing.T) {
	sellerID := id.New()
	productID := id.New()

	inv := newFakeInventory()
	inv.addSeller(sellerID, inventory.SlotTwo, inventory.Row{
		ProductID: productID,
		Price:     100,
		Recharge1: 5,
	})

	repo := newFakeInvoiceRepo()
	svc := NewService(repo, inv, passthroughTx{}, nopAuditor{})

	_, err := svc.CommitSettlement(context.Background(), &Declaration{
		SellerID:          sellerID,
		CommissionPercent: 10,
		Lines:             []Line{{ProductID: productID, FinalQty: 4, ChangesQty: 2}},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeInsufficientInventory))

	assert.Empty(t, repo.invoices, "no invoice may be created on a failed settlement")
	st := inv.states[sellerID][productID]
	assert.Equal(t, int64(5), st.Recharge1)
	assert.Equal(t, inventory.SlotTwo, inv.cycles[sellerID].CurrentSlot)
}

func TestCommitSettlement_Validation(t *testing.T) {
	svc := NewService(newFakeInvoiceRepo(), newFakeInventory(), passthroughTx{}, nopAuditor{})
	ctx := context.Background()
	productID := id.New()

	tests := []struct {
		name string
		decl *Declaration
		code string
	}{
		{
			"commission percent above range",
			&Declaration{SellerID: id.New(), CommissionPercent: 101, Lines: []Line{{ProductID: productID}}},
			apperror.CodeValidation,
		},
		{
			"negative commission percent",
			&Declaration{SellerID: id.New(), CommissionPercent: -1, Lines: []Line{{ProductID: productID}}},
			apperror.CodeValidation,
		},
		{
			"no lines",
			&Declaration{SellerID: id.New(), CommissionPercent: 10},
			apperror.CodeValidation,
		},
		{
			"negative final quantity",
			&Declaration{SellerID: id.New(), CommissionPercent: 10, Lines: []Line{{ProductID: productID, FinalQty: -1}}},
			apperror.CodeValidation,
		},
		{
			"duplicate lines",
			&Declaration{SellerID: id.New(), CommissionPercent: 10, Lines: []Line{
				{ProductID: productID}, {ProductID: productID},
			}},
			apperror.CodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CommitSettlement(ctx, tt.decl)
			require.Error(t, err)
			assert.True(t, apperror.IsCode(err, tt.code), "got %v", err)
		})
	}
}

func TestCommitSettlement_UnknownSeller(t *testing.T) {
	svc := NewService(newFakeInvoiceRepo(), newFakeInventory(), passthroughTx{}, nopAuditor{})

	_, err := svc.CommitSettlement(context.Background(), &Declaration{
		SellerID:          id.New(),
		CommissionPercent: 10,
		Lines:             []Line{{ProductID: id.New()}},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestListInvoices_DateRangeValidation(t *testing.T) {
	svc := NewService(newFakeInvoiceRepo(), newFakeInventory(), passthroughTx{}, nopAuditor{})

	from := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(-24 * time.Hour)
	_, err := svc.ListInvoices(context.Background(), ListFilter{DateFrom: &from, DateTo: &to})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
}
