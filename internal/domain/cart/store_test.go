package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gmoliveira/pizzaria-storefront/internal/storage/kv"
)

// memKV is an in-memory kv.Store for tests.
type memKV struct {
	data map[string][]byte
}

func newMemKV() *memKV {
	return &memKV{data: make(map[string][]byte)}
}

func (m *memKV) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.data[key]
	if !ok {
		return nil, kv.ErrNotFound
	}
	return v, nil
}

func (m *memKV) Set(_ context.Context, key string, value []byte) error {
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *memKV) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

const sid = "11111111-2222-3333-4444-555555555555"

func TestStore_PersistReloadRoundTrip(t *testing.T) {
	ctx := context.Background()
	mem := newMemKV()
	store := NewStore(mem)

	_, err := store.Add(ctx, sid, pizza("7", "Margherita", "14.99"), 2)
	require.NoError(t, err)
	_, err = store.Add(ctx, sid, drink("101", "Guarana", "3.99"), 1)
	require.NoError(t, err)

	// A fresh store over the same slot observes the same collection.
	reloaded := NewStore(mem).Items(ctx, sid)
	require.Len(t, reloaded, 2)
	assert.Equal(t, "7", reloaded[0].ID)
	assert.Equal(t, 2, reloaded[0].Quantity)
	assert.Equal(t, "101", reloaded[1].ID)
	assert.Equal(t, CategoryDrink, reloaded[1].Category)
}

func TestStore_MalformedSlotStartsEmpty(t *testing.T) {
	ctx := context.Background()
	mem := newMemKV()
	mem.data[cartKey(sid)] = []byte(`{broken`)

	store := NewStore(mem)
	assert.Empty(t, store.Items(ctx, sid))

	// The corrupt slot is discarded, not kept around.
	_, ok := mem.data[cartKey(sid)]
	assert.False(t, ok)
}

func TestStore_PersistsTransitionToEmpty(t *testing.T) {
	ctx := context.Background()
	mem := newMemKV()
	store := NewStore(mem)

	_, err := store.Add(ctx, sid, pizza("7", "Margherita", "14.99"), 1)
	require.NoError(t, err)

	// Removing the last item must write the empty collection back, so a
	// reload cannot resurrect the previous non-empty snapshot.
	_, err = store.Remove(ctx, sid, ItemKey{ID: "7", Category: CategoryPizza})
	require.NoError(t, err)

	data, ok := mem.data[cartKey(sid)]
	require.True(t, ok)
	assert.JSONEq(t, `[]`, string(data))
	assert.Empty(t, NewStore(mem).Items(ctx, sid))
}

func TestStore_ClearRemovesSlot(t *testing.T) {
	ctx := context.Background()
	mem := newMemKV()
	store := NewStore(mem)

	_, err := store.Add(ctx, sid, pizza("7", "Margherita", "14.99"), 1)
	require.NoError(t, err)

	ev, err := store.Clear(ctx, sid)
	require.NoError(t, err)
	assert.Equal(t, EventCleared, ev.Kind)

	_, ok := mem.data[cartKey(sid)]
	assert.False(t, ok)
}

func TestStore_FailedMutationPersistsNothing(t *testing.T) {
	ctx := context.Background()
	mem := newMemKV()
	store := NewStore(mem)

	_, err := store.Add(ctx, sid, pizza("7", "Margherita", "14.99"), 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, ok := mem.data[cartKey(sid)]
	assert.False(t, ok)
}

func TestStore_SessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newMemKV())

	_, err := store.Add(ctx, "session-a", pizza("7", "Margherita", "14.99"), 1)
	require.NoError(t, err)

	assert.Empty(t, store.Items(ctx, "session-b"))
	assert.Len(t, store.Items(ctx, "session-a"), 1)
}
