package seller

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"breadroute/internal/core/apperror"
	"breadroute/internal/core/id"
	"breadroute/internal/domain"
)

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func (passthroughTx) RunSerializable(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

type fakeRepo struct {
	byID           map[id.ID]*Seller
	forUpdateCalls int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: make(map[id.ID]*Seller)}
}

func (f *fakeRepo) Create(_ context.Context, e *Seller) error {
	cp := *e
	f.byID[e.ID] = &cp
	return nil
}

func (f *fakeRepo) Update(_ context.Context, e *Seller) error {
	if _, ok := f.byID[e.ID]; !ok {
		return apperror.NewNotFound("seller", e.ID.String())
	}
	cp := *e
	f.byID[e.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, entityID id.ID) (*Seller, error) {
	e, ok := f.byID[entityID]
	if !ok {
		return nil, apperror.NewNotFound("seller", entityID.String())
	}
	cp := *e
	return &cp, nil
}

func (f *fakeRepo) GetForUpdate(ctx context.Context, entityID id.ID) (*Seller, error) {
	f.forUpdateCalls++
	return f.GetByID(ctx, entityID)
}

func (f *fakeRepo) List(_ context.Context, _ domain.ListFilter) (*domain.ListResult[Seller], error) {
	var items []Seller
	for _, e := range f.byID {
		items = append(items, *e)
	}
	return &domain.ListResult[Seller]{Items: items, Total: int64(len(items))}, nil
}

func (f *fakeRepo) Exists(_ context.Context, entityID id.ID) (bool, error) {
	_, ok := f.byID[entityID]
	return ok, nil
}

func (f *fakeRepo) GetByName(_ context.Context, name string) (*Seller, error) {
	for _, e := range f.byID {
		if strings.EqualFold(e.Name, name) {
			cp := *e
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("seller", name)
}

type recordingMaterializer struct {
	sellerIDs []id.ID
}

func (m *recordingMaterializer) MaterializeForSeller(_ context.Context, sellerID id.ID) error {
	m.sellerIDs = append(m.sellerIDs, sellerID)
	return nil
}

type nopAuditor struct{}

func (nopAuditor) Record(context.Context, string, string, string, any) error { return nil }

func TestCreateNamed_MaterializesState(t *testing.T) {
	repo := newFakeRepo()
	mat := &recordingMaterializer{}
	svc := NewService(repo, passthroughTx{}, mat, nopAuditor{})

	e, err := svc.CreateNamed(context.Background(), "  North route ")
	require.NoError(t, err)
	assert.Equal(t, "North route", e.Name)
	assert.True(t, e.Active)
	require.Len(t, mat.sellerIDs, 1)
	assert.Equal(t, e.ID, mat.sellerIDs[0])
}

func TestCreateNamed_DuplicateName(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, passthroughTx{}, &recordingMaterializer{}, nopAuditor{})
	ctx := context.Background()

	_, err := svc.CreateNamed(ctx, "North route")
	require.NoError(t, err)

	// Case-insensitive match is rejected.
	_, err = svc.CreateNamed(ctx, "NORTH ROUTE")
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeDuplicate))
}

func TestRename(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, passthroughTx{}, &recordingMaterializer{}, nopAuditor{})
	ctx := context.Background()

	a, err := svc.CreateNamed(ctx, "North route")
	require.NoError(t, err)
	_, err = svc.CreateNamed(ctx, "South route")
	require.NoError(t, err)

	// Renaming to itself is allowed, and runs on a locked read.
	renamed, err := svc.Rename(ctx, a.ID, "North route")
	require.NoError(t, err)
	assert.Equal(t, "North route", renamed.Name)
	assert.Equal(t, 1, repo.forUpdateCalls)

	// Renaming onto another seller's name is not.
	_, err = svc.Rename(ctx, a.ID, "South route")
	require.Error(t, err)
	assert.True(t, apperror.IsCode(err, apperror.CodeDuplicate))
}

func TestSetActive(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, passthroughTx{}, &recordingMaterializer{}, nopAuditor{})
	ctx := context.Background()

	e, err := svc.CreateNamed(ctx, "North route")
	require.NoError(t, err)

	deactivated, err := svc.SetActive(ctx, e.ID, false)
	require.NoError(t, err)
	assert.False(t, deactivated.Active)

	// No-op toggle returns the current entity.
	same, err := svc.SetActive(ctx, e.ID, false)
	require.NoError(t, err)
	assert.False(t, same.Active)
}
