package analysis

import (
	"context"
	"time"

	"github.com/gecko435/affiliate-niche-finder-app/internal/contracts"
	"github.com/gecko435/affiliate-niche-finder-app/internal/synthetic"
	"github.com/gecko435/affiliate-niche-finder-app/pkg/logger"
)

// CompetitionAnalyzer measures how contested a topic's keywords are.
// The axis score is inverted difficulty: higher means easier to enter.
type CompetitionAnalyzer struct {
	fetcher
}

// NewCompetitionAnalyzer creates a competition analyzer.
func NewCompetitionAnalyzer(generator *synthetic.Generator, fetchTimeout time.Duration, log *logger.Logger) *CompetitionAnalyzer {
	return &CompetitionAnalyzer{
		fetcher: fetcher{
			generator:    generator,
			fetchTimeout: fetchTimeout,
			logger:       log.WithField("axis", contracts.AxisCompetition),
		},
	}
}

// Analyze fetches the competition metric for every keyword of the topic
// and aggregates the axis score.
func (a *CompetitionAnalyzer) Analyze(ctx context.Context, topic contracts.Topic, provider contracts.SignalProvider) contracts.AxisResult {
	result := contracts.AxisResult{
		TopicName:  topic.Name,
		Axis:       contracts.AxisCompetition,
		PerKeyword: make(map[string]contracts.KeywordMetric, len(topic.Keywords)),
	}

	if len(topic.Keywords) == 0 {
		return result
	}

	difficulties := make([]float64, 0, len(topic.Keywords))
	for _, keyword := range topic.Keywords {
		metric := a.fetch(ctx, provider, keyword, contracts.AxisCompetition)
		result.PerKeyword[keyword] = metric
		difficulties = append(difficulties, metric.Difficulty)
	}

	result.AxisScore = clamp100(100 - mean(difficulties))

	a.logger.WithFields(map[string]interface{}{
		"topic":      topic.Name,
		"keywords":   len(topic.Keywords),
		"axis_score": result.AxisScore,
	}).Debug("Calculated competition signal")

	return result
}
