package cache

import (
	"context"
	"errors"
	"time"
)

// Common errors returned by cache operations.
var (
	// ErrNotFound is returned when a requested key does not exist or has expired.
	ErrNotFound = errors.New("cache: key not found")

	// ErrInvalidKey is returned when a key is empty.
	ErrInvalidKey = errors.New("cache: invalid key")
)

// Store is a byte-oriented cache with per-key expiry. Callers serialize
// their own values; the store never interprets them.
type Store interface {
	// Get retrieves the value stored under key.
	// Returns ErrNotFound if the key does not exist or has expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key with the given time to live.
	// A zero ttl means the entry never expires.
	// Returns ErrInvalidKey if the key is empty.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes the entry under key. Deleting an absent key is a no-op.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the store.
	Close() error
}
