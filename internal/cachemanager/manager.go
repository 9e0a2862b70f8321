// Package cachemanager provides generic caches used to memoize expensive
// derived values, such as compiled delimiter patterns.
package cachemanager

import (
	"context"
	"time"
)

type CacheManager[K ~string, V any] interface {
	Get(ctx context.Context, key K) (V, bool)
	GetWithRefresh(ctx context.Context, key K, ttl time.Duration) (V, bool)
	Set(ctx context.Context, key K, value V, ttl time.Duration)
	Delete(ctx context.Context, keys ...K) error
	Flush(ctx context.Context) error
}

// Stats counts lookups served by a cache.
type Stats struct {
	Hits   int64
	Misses int64
	Items  int
}
