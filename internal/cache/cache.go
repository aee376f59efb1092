// Package cache provides a small byte-oriented cache used for short-TTL
// tracking reads. The cache is best effort: a miss or an error only costs a
// remote round trip.
package cache

import (
	"context"
	"time"
)

// BytesCache is the cache contract the application layer depends on.
type BytesCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
