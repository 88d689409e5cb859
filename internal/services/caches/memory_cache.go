package caches

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"photo-map/internal/services/cache"
)

// MemoryCache keeps signed URLs in a bounded LRU whose entries also age out.
type MemoryCache struct {
	lru *expirable.LRU[string, cache.Entry]

	// Statistics
	hits   atomic.Int64
	misses atomic.Int64
}

// NewMemoryCache holds at most size entries, each for no longer than ttl.
func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		lru: expirable.NewLRU[string, cache.Entry](size, nil, ttl),
	}
}

func (mc *MemoryCache) Name() string {
	return "MEMORY"
}

func (mc *MemoryCache) Get(_ context.Context, locator string) (cache.Entry, bool, error) {
	entry, ok := mc.lru.Get(locator)
	if !ok {
		mc.misses.Add(1)
		return cache.Entry{}, false, nil
	}
	mc.hits.Add(1)
	return entry, true, nil
}

func (mc *MemoryCache) Store(_ context.Context, locator string, entry cache.Entry) error {
	mc.lru.Add(locator, entry)
	return nil
}

func (mc *MemoryCache) Delete(_ context.Context, locator string) error {
	mc.lru.Remove(locator)
	return nil
}

func (mc *MemoryCache) GetStats() cache.LayerStats {
	hits := mc.hits.Load()
	misses := mc.misses.Load()
	return cache.LayerStats{
		Name:    "Memory",
		Entries: mc.lru.Len(),
		Hits:    hits,
		Misses:  misses,
		HitRate: cache.HitRate(hits, misses),
	}
}
