package analysis

import (
	"context"
	"time"

	"github.com/gecko435/affiliate-niche-finder-app/internal/contracts"
	"github.com/gecko435/affiliate-niche-finder-app/internal/synthetic"
	"github.com/gecko435/affiliate-niche-finder-app/pkg/logger"
)

// fetcher isolates the provider boundary shared by all three analyzers:
// each keyword fetch carries its own timeout, and any provider failure
// is absorbed by substituting the deterministic synthetic metric for
// that keyword only. One bad keyword never aborts a topic.
type fetcher struct {
	generator    *synthetic.Generator
	fetchTimeout time.Duration
	logger       *logger.Logger
}

func (f *fetcher) fetch(ctx context.Context, provider contracts.SignalProvider, keyword string, axis contracts.Axis) contracts.KeywordMetric {
	fetchCtx := ctx
	if f.fetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, f.fetchTimeout)
		defer cancel()
	}

	metric, err := provider.Fetch(fetchCtx, keyword)
	if err != nil {
		f.logger.WithError(err).WithFields(map[string]interface{}{
			"keyword":  keyword,
			"axis":     axis,
			"provider": provider.Name(),
		}).Warn("Provider fetch failed, falling back to synthetic data")
		return f.generator.Generate(keyword, axis)
	}

	metric.Keyword = keyword
	metric.Axis = axis
	if metric.Source == "" {
		metric.Source = contracts.MetricSource(provider.Name())
	}
	return metric
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func clamp100(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
