package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"breadroute/internal/core/apperror"
	"breadroute/internal/core/id"
)

// passthroughTx satisfies tx.ReadOnlyManager without a database.
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

type recordingAuditor struct {
	entries []string
}

func (a *recordingAuditor) Record(_ context.Context, entityType, entityID, action string, _ any) error {
	a.entries = append(a.entries, entityType+"/"+action)
	return nil
}

// fakeRepo is an in-memory Repository for service tests.
type fakeRepo struct {
	cycles map[id.ID]*Cycle
	states map[id.ID]map[id.ID]*ProductState
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		cycles: make(map[id.ID]*Cycle),
		states: make(map[id.ID]map[id.ID]*ProductState),
	}
}

func (f *fakeRepo) addSeller(sellerID id.ID, productIDs ...id.ID) {
	f.cycles[sellerID] = &Cycle{SellerID: sellerID, CurrentSlot: SlotOne}
	f.states[sellerID] = make(map[id.ID]*ProductState)
	for _, pid := range productIDs {
		f.states[sellerID][pid] = &ProductState{SellerID: sellerID, ProductID: pid}
	}
}

func (f *fakeRepo) GetCycle(_ context.Context, sellerID id.ID) (*Cycle, error) {
	c, ok := f.cycles[sellerID]
	if !ok {
		return nil, apperror.NewNotFound("seller", sellerID.String())
	}
	cp := *c
	return &cp, nil
}

func (f *fakeRepo) GetCycleForUpdate(ctx context.Context, sellerID id.ID) (*Cycle, error) {
	return f.GetCycle(ctx, sellerID)
}

func (f *fakeRepo) SetCycleSlot(_ context.Context, sellerID id.ID, slot Slot) error {
	f.cycles[sellerID].CurrentSlot = slot
	return nil
}

func (f *fakeRepo) GetStates(_ context.Context, sellerID id.ID) ([]ProductState, error) {
	var out []ProductState
	for _, st := range f.states[sellerID] {
		out = append(out, *st)
	}
	return out, nil
}

func (f *fakeRepo) GetRows(_ context.Context, sellerID id.ID) ([]Row, error) {
	var out []Row
	for _, st := range f.states[sellerID] {
		out = append(out, Row{
			ProductID: st.ProductID,
			Carry:     st.Carry,
			Recharge1: st.Recharge1,
			Recharge2: st.Recharge2,
			Recharge3: st.Recharge3,
		})
	}
	return out, nil
}

func (f *fakeRepo) SetSlotQuantities(_ context.Context, sellerID id.ID, slot Slot, quantities map[id.ID]int64) error {
	for pid, qty := range quantities {
		f.states[sellerID][pid].SetSlotQty(slot, qty)
	}
	return nil
}

func (f *fakeRepo) ApplyAdjustments(_ context.Context, sellerID id.ID, items []Adjustment) error {
	for _, item := range items {
		st := f.states[sellerID][item.ProductID]
		st.Carry = item.Carry
		st.Recharge1 = item.Recharge1
		st.Recharge2 = item.Recharge2
		st.Recharge3 = item.Recharge3
	}
	return nil
}

func (f *fakeRepo) ResetAfterSettlement(_ context.Context, sellerID id.ID, carry map[id.ID]int64) error {
	for pid, qty := range carry {
		st := f.states[sellerID][pid]
		st.Carry = qty
		st.Recharge1, st.Recharge2, st.Recharge3 = 0, 0, 0
	}
	return nil
}

func (f *fakeRepo) MaterializeForSeller(_ context.Context, sellerID id.ID) error { return nil }

func (f *fakeRepo) MaterializeForProduct(_ context.Context, productID id.ID) error { return nil }

func newTestService(repo *fakeRepo) (*Service, *recordingAuditor) {
	audit := &recordingAuditor{}
	return NewService(repo, passthroughTx{}, audit), audit
}

func TestCommitRecharge_CycleProgression(t *testing.T) {
	repo := newFakeRepo()
	sellerID := id.New()
	bread, croissant := id.New(), id.New()
	repo.addSeller(sellerID, bread, croissant)

	svc, _ := newTestService(repo)
	ctx := context.Background()

	res, err := svc.CommitRecharge(ctx, &RechargeBatch{
		SellerID: sellerID,
		Lines:    []RechargeLine{{ProductID: bread, Qty: 10}},
	})
	require.NoError(t, err)
	assert.Equal(t, SlotOne, res.PreviousSlot)
	assert.Equal(t, SlotTwo, res.NextSlot)
	assert.Equal(t, int64(10), repo.states[sellerID][bread].Recharge1)
	// Products missing from the batch are zeroed in the slot.
	assert.Equal(t, int64(0), repo.states[sellerID][croissant].Recharge1)

	res, err = svc.CommitRecharge(ctx, &RechargeBatch{
		SellerID: sellerID,
		Lines:    []RechargeLine{{ProductID: croissant, Qty: 4}},
	})
	require.NoError(t, err)
	assert.Equal(t, SlotThree, res.NextSlot)
	assert.Equal(t, int64(4), repo.states[sellerID][croissant].Recharge2)

	res, err = svc.CommitRecharge(ctx, &RechargeBatch{
		SellerID: sellerID,
		Lines:    []RechargeLine{{ProductID: bread, Qty: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, CycleClosed, res.NextSlot)
	assert.Equal(t, int64(2), repo.states[sellerID][bread].Recharge3)

	// Fourth recharge: cycle closed, must settle first.
	_, err = svc.CommitRecharge(ctx, &RechargeBatch{
		SellerID: sellerID,
		Lines:    []RechargeLine{{ProductID: bread, Qty: 1}},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeCycleExhausted))
	// And no state was touched.
	assert.Equal(t, int64(10), repo.states[sellerID][bread].Recharge1)
}

func TestCommitRecharge_OverwritesNotAccumulates(t *testing.T) {
	repo := newFakeRepo()
	sellerID := id.New()
	bread := id.New()
	repo.addSeller(sellerID, bread)

	svc, _ := newTestService(repo)
	ctx := context.Background()

	_, err := svc.CommitRecharge(ctx, &RechargeBatch{
		SellerID: sellerID,
		Lines:    []RechargeLine{{ProductID: bread, Qty: 5}},
	})
	require.NoError(t, err)

	// Caller retries after losing the response: cycle rolled back to slot 1
	// simulates the commit not having been observed.
	repo.cycles[sellerID].CurrentSlot = SlotOne

	_, err = svc.CommitRecharge(ctx, &RechargeBatch{
		SellerID: sellerID,
		Lines:    []RechargeLine{{ProductID: bread, Qty: 3}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), repo.states[sellerID][bread].Recharge1, "slot must be overwritten, not summed")
}

func TestCommitRecharge_OverwritesAdjustedSlot(t *testing.T) {
	repo := newFakeRepo()
	sellerID := id.New()
	bread, croissant := id.New(), id.New()
	repo.addSeller(sellerID, bread, croissant)

	svc, _ := newTestService(repo)
	ctx := context.Background()

	// An administrative correction fills slot 1 for the croissant.
	err := svc.AdjustState(ctx, sellerID, []Adjustment{
		{ProductID: croissant, Carry: 0, Recharge1: 6, Recharge2: 0, Recharge3: 0},
	})
	require.NoError(t, err)

	// A recharge that omits the croissant zeroes that correction along with
	// the rest of the slot column.
	_, err = svc.CommitRecharge(ctx, &RechargeBatch{
		SellerID: sellerID,
		Lines:    []RechargeLine{{ProductID: bread, Qty: 10}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), repo.states[sellerID][croissant].Recharge1)
	assert.Equal(t, int64(10), repo.states[sellerID][bread].Recharge1)
}

func TestCommitRecharge_Validation(t *testing.T) {
	repo := newFakeRepo()
	sellerID := id.New()
	bread := id.New()
	repo.addSeller(sellerID, bread)

	svc, _ := newTestService(repo)
	ctx := context.Background()

	tests := []struct {
		name  string
		batch *RechargeBatch
		code  string
	}{
		{
			"no lines",
			&RechargeBatch{SellerID: sellerID},
			apperror.CodeEmptyRecharge,
		},
		{
			"all zero quantities",
			&RechargeBatch{SellerID: sellerID, Lines: []RechargeLine{{ProductID: bread, Qty: 0}}},
			apperror.CodeEmptyRecharge,
		},
		{
			"negative quantity",
			&RechargeBatch{SellerID: sellerID, Lines: []RechargeLine{{ProductID: bread, Qty: -1}}},
			apperror.CodeValidation,
		},
		{
			"duplicate product",
			&RechargeBatch{SellerID: sellerID, Lines: []RechargeLine{
				{ProductID: bread, Qty: 1},
				{ProductID: bread, Qty: 2},
			}},
			apperror.CodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CommitRecharge(ctx, tt.batch)
			require.Error(t, err)
			assert.True(t, apperror.IsCode(err, tt.code), "got %v", err)
		})
	}

	// Nothing committed by any failed batch.
	assert.Equal(t, SlotOne, repo.cycles[sellerID].CurrentSlot)
	assert.Equal(t, int64(0), repo.states[sellerID][bread].Recharge1)
}

func TestCommitRecharge_UnknownProduct(t *testing.T) {
	repo := newFakeRepo()
	sellerID := id.New()
	repo.addSeller(sellerID, id.New())

	svc, _ := newTestService(repo)

	_, err := svc.CommitRecharge(context.Background(), &RechargeBatch{
		SellerID: sellerID,
		Lines:    []RechargeLine{{ProductID: id.New(), Qty: 5}},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeUnknownProductState))
}

func TestCommitRecharge_UnknownSeller(t *testing.T) {
	svc, _ := newTestService(newFakeRepo())

	_, err := svc.CommitRecharge(context.Background(), &RechargeBatch{
		SellerID: id.New(),
		Lines:    []RechargeLine{{ProductID: id.New(), Qty: 5}},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestGetInventory(t *testing.T) {
	repo := newFakeRepo()
	sellerID := id.New()
	bread := id.New()
	repo.addSeller(sellerID, bread)
	repo.states[sellerID][bread].Carry = 2
	repo.states[sellerID][bread].Recharge1 = 8

	svc, _ := newTestService(repo)

	view, err := svc.GetInventory(context.Background(), sellerID)
	require.NoError(t, err)
	assert.Equal(t, SlotOne, view.NextSlot)
	require.Len(t, view.Items, 1)
	assert.Equal(t, int64(10), view.Items[0].Available())

	_, err = svc.GetInventory(context.Background(), id.New())
	assert.True(t, apperror.IsNotFound(err))
}

func TestAdjustState(t *testing.T) {
	repo := newFakeRepo()
	sellerID := id.New()
	bread := id.New()
	repo.addSeller(sellerID, bread)

	svc, audit := newTestService(repo)
	ctx := context.Background()

	err := svc.AdjustState(ctx, sellerID, []Adjustment{
		{ProductID: bread, Carry: 3, Recharge1: 1, Recharge2: 0, Recharge3: 7},
	})
	require.NoError(t, err)

	st := repo.states[sellerID][bread]
	assert.Equal(t, int64(3), st.Carry)
	assert.Equal(t, int64(1), st.Recharge1)
	assert.Equal(t, int64(7), st.Recharge3)
	assert.Equal(t, []string{"inventory_state/adjust"}, audit.entries)

	err = svc.AdjustState(ctx, sellerID, []Adjustment{
		{ProductID: bread, Carry: -1},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeValidation))

	err = svc.AdjustState(ctx, sellerID, []Adjustment{
		{ProductID: id.New(), Carry: 1},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeUnknownProductState))
}
