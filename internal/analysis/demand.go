package analysis

import (
	"context"
	"time"

	"github.com/gecko435/affiliate-niche-finder-app/internal/contracts"
	"github.com/gecko435/affiliate-niche-finder-app/internal/scoring"
	"github.com/gecko435/affiliate-niche-finder-app/internal/synthetic"
	"github.com/gecko435/affiliate-niche-finder-app/pkg/logger"
)

// volumeCeiling is the monthly search volume that maps to a full
// volume sub-score. Keeps the demand axis inside 0-100 like the other
// two axes.
const volumeCeiling = 100.0

// DemandAnalyzer measures search demand per topic: average interest,
// monthly search volume, and the share of keywords trending upward.
type DemandAnalyzer struct {
	fetcher
	weights scoring.DemandWeights
}

// NewDemandAnalyzer creates a demand analyzer.
func NewDemandAnalyzer(weights scoring.DemandWeights, generator *synthetic.Generator, fetchTimeout time.Duration, log *logger.Logger) *DemandAnalyzer {
	return &DemandAnalyzer{
		fetcher: fetcher{
			generator:    generator,
			fetchTimeout: fetchTimeout,
			logger:       log.WithField("axis", contracts.AxisDemand),
		},
		weights: weights,
	}
}

// Analyze fetches the demand metric for every keyword of the topic and
// aggregates the axis score.
func (a *DemandAnalyzer) Analyze(ctx context.Context, topic contracts.Topic, provider contracts.SignalProvider) contracts.AxisResult {
	result := contracts.AxisResult{
		TopicName:  topic.Name,
		Axis:       contracts.AxisDemand,
		PerKeyword: make(map[string]contracts.KeywordMetric, len(topic.Keywords)),
	}

	// Should not occur post-normalization, but defend anyway
	if len(topic.Keywords) == 0 {
		return result
	}

	interests := make([]float64, 0, len(topic.Keywords))
	volumes := make([]float64, 0, len(topic.Keywords))
	rising := 0

	for _, keyword := range topic.Keywords {
		metric := a.fetch(ctx, provider, keyword, contracts.AxisDemand)
		result.PerKeyword[keyword] = metric

		interests = append(interests, metric.Interest)
		volumes = append(volumes, float64(metric.MonthlyVolume))
		if metric.Trend == contracts.TrendRising {
			rising++
		}
	}

	interestScore := mean(interests)
	volumeScore := min100(mean(volumes) / volumeCeiling)
	fractionRising := float64(rising) / float64(len(topic.Keywords))

	result.AxisScore = clamp100(
		interestScore*a.weights.Interest +
			volumeScore*a.weights.Volume +
			fractionRising*100*a.weights.Rising,
	)

	a.logger.WithFields(map[string]interface{}{
		"topic":           topic.Name,
		"keywords":        len(topic.Keywords),
		"interest_score":  interestScore,
		"volume_score":    volumeScore,
		"fraction_rising": fractionRising,
		"axis_score":      result.AxisScore,
	}).Debug("Calculated demand signal")

	return result
}

func min100(v float64) float64 {
	if v > 100 {
		return 100
	}
	return v
}
