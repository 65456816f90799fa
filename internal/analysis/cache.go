package analysis

import (
	"context"
	"time"

	"github.com/gecko435/affiliate-niche-finder-app/internal/contracts"
	"github.com/gecko435/affiliate-niche-finder-app/pkg/logger"
	"github.com/gecko435/affiliate-niche-finder-app/pkg/redis"
)

// CachedProvider wraps a signal provider with a Redis-backed metric
// cache keyed per keyword. Cache failures are logged and swallowed so
// a degraded Redis never blocks a run.
type CachedProvider struct {
	provider contracts.SignalProvider
	cache    *redis.Cache
	keyFn    func(keyword string) string
	ttl      time.Duration
	logger   *logger.Logger
}

// NewCachedProvider wraps provider with a cache layer. keyFn maps a
// keyword to its cache key, ttl bounds how long a metric stays warm.
func NewCachedProvider(provider contracts.SignalProvider, cache *redis.Cache, keyFn func(string) string, ttl time.Duration, log *logger.Logger) contracts.SignalProvider {
	return &CachedProvider{
		provider: provider,
		cache:    cache,
		keyFn:    keyFn,
		ttl:      ttl,
		logger:   log,
	}
}

// Fetch returns the cached metric when present, otherwise fetches from
// the wrapped provider and stores the result.
func (p *CachedProvider) Fetch(ctx context.Context, keyword string) (contracts.KeywordMetric, error) {
	key := p.keyFn(keyword)

	var cached contracts.KeywordMetric
	found, err := p.cache.Get(ctx, key, &cached)
	if err != nil {
		p.logger.WithError(err).WithField("key", key).Warn("Metric cache read failed")
	}
	if found {
		return cached, nil
	}

	metric, err := p.provider.Fetch(ctx, keyword)
	if err != nil {
		return contracts.KeywordMetric{}, err
	}

	if err := p.cache.Set(ctx, key, metric, p.ttl); err != nil {
		p.logger.WithError(err).WithField("key", key).Warn("Metric cache write failed")
	}

	return metric, nil
}

// Name reports the wrapped provider's name so run metadata reflects
// the real source, not the cache layer.
func (p *CachedProvider) Name() string {
	return p.provider.Name()
}
