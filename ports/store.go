package ports

import (
	"context"
	"time"
)

// SessionStore is the TTL-based key-value store holding the single
// currently-valid token per address and type. Set, Get and Delete are
// atomic per key; last write wins.
type SessionStore interface {
	// Set writes a value under key with the given TTL, overwriting any
	// previous value
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Get retrieves a value by key, returning core.ErrSessionNotFound
	// when the key is absent or expired
	Get(ctx context.Context, key string) (string, error)

	// Delete removes the given keys; deleting absent keys is not an error
	Delete(ctx context.Context, keys ...string) error
}
