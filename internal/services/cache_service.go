package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"photo-map/internal/metrics"
	"photo-map/internal/services/cache"
	"photo-map/internal/storage"
)

// DefaultRefreshMargin is how long before expiry a cached signature is replaced.
const DefaultRefreshMargin = 5 * time.Minute

// CacheService hands out signed URLs, re-signing only when the cached one is about to lapse.
// Concurrent refreshes of one key may both sign; the last store wins.
type CacheService struct {
	layer   cache.URLCache
	blobs   storage.BlobStore
	ttl     time.Duration
	margin  time.Duration
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

func NewCacheService(layer cache.URLCache, blobs storage.BlobStore, ttl time.Duration, m *metrics.Metrics, logger *zap.Logger) *CacheService {
	margin := DefaultRefreshMargin
	if margin >= ttl {
		margin = ttl / 2
	}
	return &CacheService{
		layer:   layer,
		blobs:   blobs,
		ttl:     ttl,
		margin:  margin,
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
}

// SignedURL returns a usable signed URL for the object stored under key.
func (s *CacheService) SignedURL(ctx context.Context, key string) (string, error) {
	now := s.now()

	entry, ok, err := s.layer.Get(ctx, key)
	if err != nil {
		s.logger.Warn("signed url cache lookup failed", zap.String("layer", s.layer.Name()), zap.String("key", key), zap.Error(err))
	}
	if ok && !entry.Expired(now, s.margin) {
		s.metrics.RecordCacheHit()
		return entry.URL, nil
	}
	s.metrics.RecordCacheMiss()

	signed, err := s.blobs.Sign(ctx, key, s.ttl)
	if err != nil {
		return "", err
	}
	if err := s.layer.Store(ctx, key, cache.Entry{URL: signed, ExpiresAt: now.Add(s.ttl)}); err != nil {
		s.logger.Warn("could not cache signed url", zap.String("key", key), zap.Error(err))
	}
	return signed, nil
}

// Invalidate drops the cached URL of key.
func (s *CacheService) Invalidate(ctx context.Context, key string) {
	if err := s.layer.Delete(ctx, key); err != nil {
		s.logger.Warn("could not invalidate signed url", zap.String("key", key), zap.Error(err))
	}
}

// Stats reports the cache layer statistics.
func (s *CacheService) Stats() cache.LayerStats {
	return s.layer.GetStats()
}
