package commands

import (
	"fmt"

	"github.com/gecko435/affiliate-niche-finder-app/internal/analysis"
	"github.com/gecko435/affiliate-niche-finder-app/internal/contracts"
	"github.com/gecko435/affiliate-niche-finder-app/internal/normalize"
	"github.com/gecko435/affiliate-niche-finder-app/internal/scoring"
	"github.com/gecko435/affiliate-niche-finder-app/internal/synthetic"
	"github.com/gecko435/affiliate-niche-finder-app/pkg/config"
	"github.com/gecko435/affiliate-niche-finder-app/pkg/httputil"
	"github.com/gecko435/affiliate-niche-finder-app/pkg/logger"
	"github.com/gecko435/affiliate-niche-finder-app/pkg/redis"
)

// loadWeights resolves the scoring weights: file override first,
// built-in defaults otherwise.
func loadWeights(cfg *config.Config) (scoring.Weights, error) {
	if cfg.Analysis.WeightsFile == "" {
		return scoring.DefaultWeights(), nil
	}
	weights, err := scoring.LoadWeights(cfg.Analysis.WeightsFile)
	if err != nil {
		return scoring.Weights{}, fmt.Errorf("load weights: %w", err)
	}
	return weights, nil
}

// buildService wires the full analysis pipeline from configuration.
// store may be nil when persistence is not wanted; redisClient may be
// nil when caching is disabled.
func buildService(cfg *config.Config, log *logger.Logger, store contracts.RunStore, redisClient *redis.Client) (*analysis.Service, error) {
	weights, err := loadWeights(cfg)
	if err != nil {
		return nil, err
	}

	generator := synthetic.NewGenerator(synthetic.DefaultMarkers())
	httpClient := httputil.New(cfg, log)

	runner := analysis.NewRunner(
		normalize.New(log),
		analysis.NewDemandAnalyzer(weights.Demand, generator, cfg.Analysis.FetchTimeout, log),
		analysis.NewCompetitionAnalyzer(generator, cfg.Analysis.FetchTimeout, log),
		analysis.NewSocialAnalyzer(weights.Social, generator, cfg.Analysis.FetchTimeout, log),
		scoring.NewAggregator(weights, log),
		cfg.Analysis.Workers,
		cfg.Analysis.SocialEnabled,
		log,
	)

	providers := analysis.BuildProviders(cfg, httpClient, redisClient, generator, log)

	return analysis.NewService(runner, providers, store, log), nil
}
