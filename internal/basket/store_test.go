package basket

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludmilpaulo/ClinicSystemMobile/internal/domain"
	"github.com/ludmilpaulo/ClinicSystemMobile/internal/storage"
)

func testProduct(id int64, price float64, available int) domain.Product {
	return domain.Product{
		ID:                id,
		Name:              "Product",
		Price:             price,
		QuantityAvailable: available,
	}
}

func newTestStore(t *testing.T) (*Store, *storage.MemoryStorage) {
	t.Helper()
	st := storage.NewMemoryStorage()
	return NewStore(context.Background(), "user1", st), st
}

func TestAddOrIncrement_NewLine(t *testing.T) {
	store, _ := newTestStore(t)

	err := store.AddOrIncrement(testProduct(1, 10, 5))
	require.NoError(t, err)

	snapshot := store.Snapshot()
	require.Len(t, snapshot.Lines, 1)
	assert.Equal(t, 1, snapshot.Lines[0].Quantity)
	assert.Equal(t, 1, store.ItemCount())
}

func TestAddOrIncrement_ExistingLine(t *testing.T) {
	store, _ := newTestStore(t)
	p := testProduct(1, 10, 5)

	require.NoError(t, store.AddOrIncrement(p))
	require.NoError(t, store.AddOrIncrement(p))

	snapshot := store.Snapshot()
	require.Len(t, snapshot.Lines, 1)
	assert.Equal(t, 2, snapshot.Lines[0].Quantity)
}

func TestAddOrIncrement_StockExceeded(t *testing.T) {
	store, _ := newTestStore(t)
	p := testProduct(1, 50, 1)

	require.NoError(t, store.AddOrIncrement(p))

	err := store.AddOrIncrement(p)
	assert.ErrorIs(t, err, domain.ErrStockExceeded)

	// state unchanged
	snapshot := store.Snapshot()
	require.Len(t, snapshot.Lines, 1)
	assert.Equal(t, 1, snapshot.Lines[0].Quantity)
	assert.Equal(t, 1, store.ItemCount())
}

func TestAddOrIncrement_UnavailableProduct(t *testing.T) {
	store, _ := newTestStore(t)

	err := store.AddOrIncrement(testProduct(1, 10, 0))
	assert.ErrorIs(t, err, domain.ErrStockExceeded)
	assert.True(t, store.Snapshot().IsEmpty())
}

func TestDecrement_RemovesLineAtQuantityOne(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.AddOrIncrement(testProduct(1, 10, 5)))
	require.NoError(t, store.AddOrIncrement(testProduct(2, 5, 5)))

	before := store.ItemCount()
	store.Decrement(1)

	snapshot := store.Snapshot()
	require.Len(t, snapshot.Lines, 1)
	assert.Equal(t, int64(2), snapshot.Lines[0].Product.ID)
	assert.Equal(t, before-1, store.ItemCount())
}

func TestDecrement_UnknownIDIsNoOp(t *testing.T) {
	store, _ := newTestStore(t)
	require.NoError(t, store.AddOrIncrement(testProduct(1, 10, 5)))

	store.Decrement(99)
	assert.Equal(t, 1, store.ItemCount())
}

func TestRemove(t *testing.T) {
	store, _ := newTestStore(t)
	p := testProduct(1, 10, 5)
	require.NoError(t, store.AddOrIncrement(p))
	require.NoError(t, store.AddOrIncrement(p))

	store.Remove(1)
	assert.True(t, store.Snapshot().IsEmpty())

	// unknown id is a no-op
	store.Remove(1)
	assert.True(t, store.Snapshot().IsEmpty())
}

func TestTotal_RecomputedAfterMutation(t *testing.T) {
	store, _ := newTestStore(t)
	a := testProduct(1, 10, 5)
	b := testProduct(2, 5, 5)

	require.NoError(t, store.AddOrIncrement(a))
	require.NoError(t, store.AddOrIncrement(a))
	require.NoError(t, store.AddOrIncrement(b))
	assert.InDelta(t, 25.0, store.Total(), 1e-9)

	store.Decrement(1)
	assert.InDelta(t, 15.0, store.Total(), 1e-9)
}

func TestItemCount_MatchesQuantities(t *testing.T) {
	store, _ := newTestStore(t)
	a := testProduct(1, 10, 3)
	b := testProduct(2, 5, 2)

	require.NoError(t, store.AddOrIncrement(a))
	require.NoError(t, store.AddOrIncrement(a))
	require.NoError(t, store.AddOrIncrement(b))
	store.Decrement(2)
	store.Remove(99)

	snapshot := store.Snapshot()
	var sum int
	for _, l := range snapshot.Lines {
		sum += l.Quantity
		assert.Greater(t, l.Quantity, 0)
	}
	assert.Equal(t, sum, store.ItemCount())
}

func TestEndToEndScenario(t *testing.T) {
	store, _ := newTestStore(t)
	a := testProduct(1, 100, 5)
	b := testProduct(2, 50, 1)

	require.NoError(t, store.AddOrIncrement(a))
	require.NoError(t, store.AddOrIncrement(a))
	require.NoError(t, store.AddOrIncrement(b))

	assert.Equal(t, 3, store.ItemCount())
	assert.InDelta(t, 250.0, store.Total(), 1e-9)

	store.Decrement(1)
	assert.InDelta(t, 150.0, store.Total(), 1e-9)

	err := store.AddOrIncrement(b)
	assert.ErrorIs(t, err, domain.ErrStockExceeded)
	assert.Equal(t, 2, store.ItemCount())
	assert.InDelta(t, 150.0, store.Total(), 1e-9)
}

// Save is synchronous on every mutation, so a load after Clear sees the
// empty basket, never the pre-clear state.
func TestClear_WriteThroughOrdering(t *testing.T) {
	store, st := newTestStore(t)
	require.NoError(t, store.AddOrIncrement(testProduct(1, 10, 5)))

	store.Clear()

	loaded, err := st.Load(context.Background(), "user1")
	require.NoError(t, err)
	assert.True(t, loaded.IsEmpty())
}

func TestPersistenceRoundTrip(t *testing.T) {
	st := storage.NewMemoryStorage()
	store := NewStore(context.Background(), "user1", st)

	a := testProduct(1, 10, 5)
	require.NoError(t, store.AddOrIncrement(a))
	require.NoError(t, store.AddOrIncrement(a))
	require.NoError(t, store.AddOrIncrement(testProduct(2, 5, 5)))

	// a fresh store rehydrates the same ids and quantities
	reloaded := NewStore(context.Background(), "user1", st)
	got := reloaded.Snapshot()
	want := store.Snapshot()

	require.Len(t, got.Lines, len(want.Lines))
	for i := range want.Lines {
		assert.Equal(t, want.Lines[i].Product.ID, got.Lines[i].Product.ID)
		assert.Equal(t, want.Lines[i].Quantity, got.Lines[i].Quantity)
	}
}

type failingStorage struct{}

func (failingStorage) Load(context.Context, string) (domain.Basket, error) {
	return domain.Basket{}, errors.New("storage down")
}

func (failingStorage) Save(context.Context, string, domain.Basket) error {
	return errors.New("storage down")
}

func (failingStorage) Delete(context.Context, string) error {
	return errors.New("storage down")
}

// Persistence failures are logged, not fatal: the store starts empty
// and in-memory mutations still apply.
func TestStorageFailureIsNotFatal(t *testing.T) {
	store := NewStore(context.Background(), "user1", failingStorage{})

	require.NoError(t, store.AddOrIncrement(testProduct(1, 10, 5)))
	assert.Equal(t, 1, store.ItemCount())
}

func TestManager_LoadsOncePerUser(t *testing.T) {
	st := storage.NewMemoryStorage()
	mgr := NewManager(st)
	ctx := context.Background()

	s1 := mgr.Store(ctx, "user1")
	require.NoError(t, s1.AddOrIncrement(testProduct(1, 10, 5)))

	s2 := mgr.Store(ctx, "user1")
	assert.Same(t, s1, s2)
	assert.Equal(t, 1, s2.ItemCount())
}
