package scoring

import (
	"math"
	"sort"

	"github.com/gecko435/affiliate-niche-finder-app/internal/contracts"
	"github.com/gecko435/affiliate-niche-finder-app/pkg/logger"
)

// Aggregator combines per-axis results into composite scores and ranks
// topics by opportunity.
type Aggregator struct {
	weights Weights
	logger  *logger.Logger
}

// NewAggregator creates an aggregator with the given weights.
func NewAggregator(weights Weights, log *logger.Logger) *Aggregator {
	return &Aggregator{
		weights: weights,
		logger:  log.WithField("module", "scoring"),
	}
}

// Aggregate builds the composite score for one topic. The social result
// is optional; when absent the remaining weights redistribute so they
// still sum to 1 (the two-axis formula, not a zero-weighted three-axis
// one).
func (a *Aggregator) Aggregate(topic contracts.Topic, demand, competition contracts.AxisResult, social *contracts.AxisResult) contracts.CompositeScore {
	score := contracts.CompositeScore{
		TopicName:       topic.Name,
		Demand:          demand.AxisScore,
		CompetitionEase: competition.AxisScore,
	}

	cw := a.weights.Composite
	if social != nil {
		s := social.AxisScore
		score.Social = &s
		score.Total = demand.AxisScore*cw.Demand +
			competition.AxisScore*cw.CompetitionEase +
			s*cw.Social
	} else {
		score.Total = demand.AxisScore*cw.DemandTwoAxis +
			competition.AxisScore*cw.CompetitionTwoAxis
	}

	// Inputs are already bounded; the clamp absorbs any future axis
	// formula drift
	score.Total = clamp(score.Total, 0, 100)

	a.logger.WithFields(map[string]interface{}{
		"topic":  topic.Name,
		"total":  score.Total,
		"social": social != nil,
	}).Debug("Aggregated composite score")

	return score
}

// Rank sorts composite scores by total (descending) and assigns ranks.
// The input slice is not modified.
func (a *Aggregator) Rank(scores []contracts.CompositeScore) []contracts.CompositeScore {
	ranked := make([]contracts.CompositeScore, len(scores))
	copy(ranked, scores)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Total > ranked[j].Total
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}

	if len(ranked) > 0 {
		a.logger.WithFields(map[string]interface{}{
			"total_topics": len(ranked),
			"top_topic":    ranked[0].TopicName,
			"top_score":    ranked[0].Total,
		}).Info("Ranking completed")
	}

	return ranked
}

// RankResults assigns ranks across topic results in place, ordered by
// total descending. Ranks attach by position, so topics sharing a name
// still receive distinct ranks.
func (a *Aggregator) RankResults(results []contracts.TopicResult) {
	order := make([]int, len(results))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return results[order[i]].Score.Total > results[order[j]].Score.Total
	})
	for rank, idx := range order {
		results[idx].Score.Rank = rank + 1
	}

	if len(results) > 0 {
		top := results[order[0]]
		a.logger.WithFields(map[string]interface{}{
			"total_topics": len(results),
			"top_topic":    top.Topic.Name,
			"top_score":    top.Score.Total,
		}).Info("Ranking completed")
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
