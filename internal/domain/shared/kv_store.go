package shared

import (
	"context"
	"time"
)

// KVStore is a small key/value cache used for per-tenant settings and template configs.
// Get returns ErrNotFound when the key is missing or expired.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key; a zero ttl keeps it until deleted
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
