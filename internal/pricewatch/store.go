// internal/pricewatch/store.go
package pricewatch

import (
	"context"
	"time"
)

// ByteCache is the subset of the cache interface the tracker persists through.
type ByteCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// cacheStore adapts a ByteCache to the tracker's Store interface. Alerts are
// stored without expiry; they live until deleted or fired.
type cacheStore struct {
	cache ByteCache
}

// NewCacheStore wraps a cache as an alert store.
func NewCacheStore(cache ByteCache) Store {
	return &cacheStore{cache: cache}
}

func (s *cacheStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, ok := s.cache.Get(ctx, key)
	return value, ok, nil
}

func (s *cacheStore) Set(ctx context.Context, key string, value []byte) error {
	return s.cache.Set(ctx, key, value, 0)
}
