package caches

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"photo-map/internal/services/cache"
)

const redisKeyPrefix = "signed-url:"

// statsTimeout bounds the key count behind GetStats.
const statsTimeout = 2 * time.Second

// kvStore is the part of storage.RedisClient the cache needs.
type kvStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	CountKeys(ctx context.Context, pattern string) (int, error)
}

// RedisCache shares signed URLs between service instances.
type RedisCache struct {
	client kvStore
	logger *zap.Logger

	// Statistics
	hits    atomic.Int64
	misses  atomic.Int64
	entries atomic.Int64
}

func NewRedisCache(client kvStore, logger *zap.Logger) *RedisCache {
	return &RedisCache{client: client, logger: logger}
}

func (rc *RedisCache) Name() string {
	return "REDIS"
}

func (rc *RedisCache) Get(ctx context.Context, locator string) (cache.Entry, bool, error) {
	raw, err := rc.client.Get(ctx, redisKeyPrefix+locator)
	if err != nil {
		rc.misses.Add(1)
		return cache.Entry{}, false, fmt.Errorf("redis error: %w", err)
	}
	if raw == "" {
		rc.misses.Add(1)
		return cache.Entry{}, false, nil
	}

	var entry cache.Entry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		rc.misses.Add(1)
		return cache.Entry{}, false, errors.Wrap(err, "corrupt cache entry")
	}
	rc.hits.Add(1)
	return entry, true, nil
}

// Store keeps the entry in Redis until its signature expires.
func (rc *RedisCache) Store(ctx context.Context, locator string, entry cache.Entry) error {
	ttl := time.Until(entry.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	if err := rc.client.Set(ctx, redisKeyPrefix+locator, string(raw), ttl); err != nil {
		return fmt.Errorf("failed to store in Redis: %w", err)
	}
	return nil
}

func (rc *RedisCache) Delete(ctx context.Context, locator string) error {
	return rc.client.Delete(ctx, redisKeyPrefix+locator)
}

// GetStats counts cached entries with SCAN. When the count fails the last known value is reported.
func (rc *RedisCache) GetStats() cache.LayerStats {
	hits := rc.hits.Load()
	misses := rc.misses.Load()

	ctx, cancel := context.WithTimeout(context.Background(), statsTimeout)
	defer cancel()
	if n, err := rc.client.CountKeys(ctx, redisKeyPrefix+"*"); err != nil {
		rc.logger.Warn("could not count cached urls", zap.Error(err))
	} else {
		rc.entries.Store(int64(n))
	}

	return cache.LayerStats{
		Name:    "Redis",
		Entries: int(rc.entries.Load()),
		Hits:    hits,
		Misses:  misses,
		HitRate: cache.HitRate(hits, misses),
	}
}
