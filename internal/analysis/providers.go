package analysis

import (
	"github.com/gecko435/affiliate-niche-finder-app/internal/contracts"
	"github.com/gecko435/affiliate-niche-finder-app/internal/external/semrush"
	"github.com/gecko435/affiliate-niche-finder-app/internal/external/serp"
	"github.com/gecko435/affiliate-niche-finder-app/internal/external/trends"
	"github.com/gecko435/affiliate-niche-finder-app/internal/external/twitter"
	"github.com/gecko435/affiliate-niche-finder-app/internal/external/ubersuggest"
	"github.com/gecko435/affiliate-niche-finder-app/internal/synthetic"
	"github.com/gecko435/affiliate-niche-finder-app/pkg/config"
	"github.com/gecko435/affiliate-niche-finder-app/pkg/httputil"
	"github.com/gecko435/affiliate-niche-finder-app/pkg/logger"
	"github.com/gecko435/affiliate-niche-finder-app/pkg/redis"
)

// BuildProviders selects the per-axis signal provider once per run
// setup. A provider with no credentials configured is equivalent to an
// omitted one: the axis falls back to deterministic synthetic data.
// When Redis is enabled, external providers are wrapped with a metric
// cache so repeated runs do not re-fetch unchanged keywords.
func BuildProviders(cfg *config.Config, httpClient *httputil.Client, redisClient *redis.Client, generator *synthetic.Generator, log *logger.Logger) Providers {
	providers := Providers{
		Demand:      synthetic.NewProvider(generator, contracts.AxisDemand),
		Competition: synthetic.NewProvider(generator, contracts.AxisCompetition),
		Social:      synthetic.NewProvider(generator, contracts.AxisSocial),
	}

	// When Redis is available, each vendor gets its own sliding-window
	// limit layered on top of the in-process limiters, so several
	// replicas share one quota. Without Redis the base client passes
	// through unchanged.
	var limiter *redis.RateLimiter
	if redisClient != nil && redisClient.Enabled() {
		limiter = redis.NewRateLimiter(redisClient, "niche")
	}
	vendorClient := func(rl redis.RateLimitConfig) *httputil.Client {
		if limiter == nil {
			return httpClient
		}
		return httpClient.ForVendor(limiter, rl)
	}

	// Demand: Google Trends needs no key, but is opt-in via the
	// configured API key to keep keyless runs fully offline.
	if cfg.Google.APIKey != "" {
		client := trends.NewClient(vendorClient(redis.TrendsRateLimit), cfg.Google.TrendsBaseURL, cfg.Google.Geo, log)
		providers.Demand = trends.NewProvider(client, generator)
	}

	// Competition: Semrush wins over Ubersuggest, which wins over the
	// keyless SERP scraper; the scraper only engages when explicitly
	// opted into.
	switch {
	case cfg.Semrush.APIKey != "":
		client := semrush.NewClient(vendorClient(redis.SemrushRateLimit), cfg.Semrush.BaseURL, cfg.Semrush.APIKey, cfg.Semrush.Database, log)
		providers.Competition = semrush.NewProvider(client)
	case cfg.Ubersuggest.APIKey != "":
		client := ubersuggest.NewClient(vendorClient(redis.UbersuggestRateLimit), cfg.Ubersuggest.BaseURL, cfg.Ubersuggest.APIKey, cfg.Ubersuggest.Country, log)
		providers.Competition = ubersuggest.NewProvider(client)
	case cfg.Analysis.SERPFallback:
		client := serp.NewClient(httpClient, log)
		providers.Competition = serp.NewProvider(client)
	}

	// Social: requires a bearer token. The Twitter client owns its
	// http.Client, so the shared window attaches to it directly.
	if cfg.Twitter.BearerToken != "" {
		client := twitter.NewClient(cfg.Twitter.BaseURL, cfg.Twitter.BearerToken, log)
		if limiter != nil {
			client = client.WithSharedLimit(limiter, redis.TwitterRateLimit)
		}
		providers.Social = twitter.NewProvider(client)
	}

	// Synthetic providers stay unwrapped: they are deterministic and
	// cheaper than a Redis round-trip.
	if redisClient != nil && redisClient.Enabled() {
		cache := redis.NewCache(redisClient, "niche")
		if _, ok := providers.Demand.(*synthetic.Provider); !ok {
			providers.Demand = NewCachedProvider(providers.Demand, cache, redis.DemandKey, cfg.Analysis.CacheTTL, log)
		}
		if _, ok := providers.Competition.(*synthetic.Provider); !ok {
			providers.Competition = NewCachedProvider(providers.Competition, cache, redis.CompetitionKey, cfg.Analysis.CacheTTL, log)
		}
		if _, ok := providers.Social.(*synthetic.Provider); !ok {
			providers.Social = NewCachedProvider(providers.Social, cache, redis.SocialKey, cfg.Analysis.CacheTTL, log)
		}
	}

	log.WithFields(map[string]interface{}{
		"demand":      providers.Demand.Name(),
		"competition": providers.Competition.Name(),
		"social":      providers.Social.Name(),
	}).Info("Signal providers selected")

	return providers
}
