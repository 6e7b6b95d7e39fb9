// Package kv provides the durable key-value slots the storefront uses for
// session-scoped state (cart snapshots, auth markers). Two implementations are
// available: a file-backed store for single-instance deployments and a Redis
// store for deployments that share state across instances.
package kv

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("key not found")

// Store is a durable key-value slot. Concurrent writers to the same key are
// not coordinated: the last writer wins.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
