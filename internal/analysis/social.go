package analysis

import (
	"context"
	"time"

	"github.com/gecko435/affiliate-niche-finder-app/internal/contracts"
	"github.com/gecko435/affiliate-niche-finder-app/internal/scoring"
	"github.com/gecko435/affiliate-niche-finder-app/internal/synthetic"
	"github.com/gecko435/affiliate-niche-finder-app/pkg/logger"
)

// Normalization ceilings: 5000 tweets and a 10% engagement rate each map
// to a full sub-score.
const (
	tweetCeiling      = 50.0
	engagementCeiling = 10.0
)

// SocialAnalyzer measures social chatter per topic: tweet volume,
// engagement rate, and sentiment.
type SocialAnalyzer struct {
	fetcher
	weights scoring.SocialWeights
}

// NewSocialAnalyzer creates a social analyzer.
func NewSocialAnalyzer(weights scoring.SocialWeights, generator *synthetic.Generator, fetchTimeout time.Duration, log *logger.Logger) *SocialAnalyzer {
	return &SocialAnalyzer{
		fetcher: fetcher{
			generator:    generator,
			fetchTimeout: fetchTimeout,
			logger:       log.WithField("axis", contracts.AxisSocial),
		},
		weights: weights,
	}
}

// Analyze fetches the social metric for every keyword of the topic and
// aggregates the axis score.
func (a *SocialAnalyzer) Analyze(ctx context.Context, topic contracts.Topic, provider contracts.SignalProvider) contracts.AxisResult {
	result := contracts.AxisResult{
		TopicName:  topic.Name,
		Axis:       contracts.AxisSocial,
		PerKeyword: make(map[string]contracts.KeywordMetric, len(topic.Keywords)),
	}

	if len(topic.Keywords) == 0 {
		return result
	}

	tweets := make([]float64, 0, len(topic.Keywords))
	engagements := make([]float64, 0, len(topic.Keywords))
	sentiments := make([]float64, 0, len(topic.Keywords))

	for _, keyword := range topic.Keywords {
		metric := a.fetch(ctx, provider, keyword, contracts.AxisSocial)
		result.PerKeyword[keyword] = metric

		tweets = append(tweets, float64(metric.TweetCount))
		engagements = append(engagements, metric.EngagementRate)
		sentiments = append(sentiments, metric.Sentiment.Value())
	}

	tweetScore := min100(mean(tweets) / tweetCeiling)
	engagementScore := min100(mean(engagements) * engagementCeiling)
	// Map the -1..1 sentiment average onto 0-100
	sentimentScore := (mean(sentiments) + 1) * 50

	result.AxisScore = clamp100(
		tweetScore*a.weights.Tweets +
			engagementScore*a.weights.Engagement +
			sentimentScore*a.weights.Sentiment,
	)

	a.logger.WithFields(map[string]interface{}{
		"topic":            topic.Name,
		"keywords":         len(topic.Keywords),
		"tweet_score":      tweetScore,
		"engagement_score": engagementScore,
		"sentiment_score":  sentimentScore,
		"axis_score":       result.AxisScore,
	}).Debug("Calculated social signal")

	return result
}
