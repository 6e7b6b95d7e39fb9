package cart

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/gmoliveira/pizzaria-storefront/internal/storage/kv"
)

// Store persists per-session carts in a durable key-value slot. Every
// mutation is written back in full, including transitions to empty, so a
// reload always observes the latest state. Access to a session's cart is
// serialized by a per-session lock.
type Store struct {
	kv kv.Store

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewStore returns a Store backed by the given key-value store.
func NewStore(store kv.Store) *Store {
	return &Store{
		kv:    store,
		locks: make(map[string]*sync.Mutex),
	}
}

func cartKey(sessionID string) string {
	return "cart:" + sessionID
}

// lock returns the mutex guarding sessionID's cart.
func (s *Store) lock(sessionID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[sessionID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[sessionID] = l
	}
	return l
}

// load reads the session's cart from storage. A missing slot yields an empty
// cart. A malformed slot is discarded and also yields an empty cart: storage
// corruption must never break the session.
func (s *Store) load(ctx context.Context, sessionID string) *Cart {
	data, err := s.kv.Get(ctx, cartKey(sessionID))
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			zctx.From(ctx).Warn("Cart slot unreadable, starting empty", zap.Error(err))
		}
		return New()
	}

	items, err := DecodeSnapshot(data)
	if err != nil {
		zctx.From(ctx).Warn("Discarding malformed cart snapshot", zap.Error(err))
		_ = s.kv.Delete(ctx, cartKey(sessionID))
		return New()
	}
	return Restore(items)
}

// persist writes the cart back after a mutation. A cleared cart removes the
// slot entirely; every other state, empty included, is written in full.
func (s *Store) persist(ctx context.Context, sessionID string, c *Cart, ev Event) error {
	if ev.Kind == EventCleared {
		return s.kv.Delete(ctx, cartKey(sessionID))
	}
	return s.kv.Set(ctx, cartKey(sessionID), EncodeSnapshot(c.Items()))
}

// mutate runs fn against the session's cart under its lock and persists the
// result. fn's event is returned unchanged. Failed mutations persist nothing.
func (s *Store) mutate(ctx context.Context, sessionID string, fn func(*Cart) (Event, error)) (Event, error) {
	l := s.lock(sessionID)
	l.Lock()
	defer l.Unlock()

	c := s.load(ctx, sessionID)
	ev, err := fn(c)
	if err != nil {
		return ev, err
	}
	if ev.Kind == EventNone {
		return ev, nil
	}
	if err := s.persist(ctx, sessionID, c, ev); err != nil {
		return ev, errors.Wrap(err, "persist cart")
	}
	return ev, nil
}

// Items returns the session's current collection in insertion order.
func (s *Store) Items(ctx context.Context, sessionID string) []LineItem {
	l := s.lock(sessionID)
	l.Lock()
	defer l.Unlock()

	return s.load(ctx, sessionID).Items()
}

// Add merges qty of item into the session's cart, or appends it.
func (s *Store) Add(ctx context.Context, sessionID string, item LineItem, qty int) (Event, error) {
	return s.mutate(ctx, sessionID, func(c *Cart) (Event, error) {
		return c.Add(item, qty)
	})
}

// UpdateQuantity sets the quantity for the matching item; zero or negative
// removes it. Updating an absent item is a no-op.
func (s *Store) UpdateQuantity(ctx context.Context, sessionID string, key ItemKey, qty int) (Event, error) {
	return s.mutate(ctx, sessionID, func(c *Cart) (Event, error) {
		return c.UpdateQuantity(key, qty), nil
	})
}

// Remove drops the matching item. Removing an absent item is a no-op.
func (s *Store) Remove(ctx context.Context, sessionID string, key ItemKey) (Event, error) {
	return s.mutate(ctx, sessionID, func(c *Cart) (Event, error) {
		removed, ok := c.Remove(key)
		if !ok {
			return Event{Kind: EventNone}, nil
		}
		return Event{Kind: EventRemoved, Item: removed}, nil
	})
}

// Clear empties the session's cart and removes its storage slot.
func (s *Store) Clear(ctx context.Context, sessionID string) (Event, error) {
	return s.mutate(ctx, sessionID, func(c *Cart) (Event, error) {
		return c.Clear(), nil
	})
}
