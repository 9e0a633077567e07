package providers

import (
	"context"
	"time"
)

// CacheProvider abstracts the key-value cache used for configuration
// snapshots.
type CacheProvider interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
