package pipeline

import (
	"context"
	"time"

	"github.com/richxcame/pricing-pipeline/pkg/cache"
)

const (
	lastRunCacheKey = "pricing_pipeline:last_run"
	lastRunCacheTTL = 10 * time.Minute
)

// StatusCache mirrors the last completed RunRecord in Redis so
// get_last_run can serve a fast path without a database round trip
// when the Postgres primary is slow, reusing the existing pkg/cache
// wrapper around go-redis.
type StatusCache struct {
	cache *cache.Cache
}

// NewStatusCache builds a StatusCache over an existing cache client.
func NewStatusCache(c *cache.Cache) *StatusCache {
	return &StatusCache{cache: c}
}

// Put mirrors a completed RunRecord into the cache.
func (s *StatusCache) Put(ctx context.Context, run RunRecord) error {
	if s == nil || s.cache == nil {
		return nil
	}
	return s.cache.Set(ctx, lastRunCacheKey, run, lastRunCacheTTL)
}

// Get reads the mirrored last-run RunRecord, returning (nil, nil) on a
// cache miss so callers fall back to the primary store.
func (s *StatusCache) Get(ctx context.Context) (*RunRecord, error) {
	if s == nil || s.cache == nil {
		return nil, nil
	}
	var run RunRecord
	if err := s.cache.Get(ctx, lastRunCacheKey, &run); err != nil {
		return nil, nil
	}
	return &run, nil
}
