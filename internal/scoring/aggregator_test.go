package scoring

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gecko435/affiliate-niche-finder-app/internal/contracts"
	"github.com/gecko435/affiliate-niche-finder-app/pkg/config"
	"github.com/gecko435/affiliate-niche-finder-app/pkg/logger"
)

func newTestAggregator() *Aggregator {
	log := logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"})
	return NewAggregator(DefaultWeights(), log)
}

func axisResult(topic string, axis contracts.Axis, score float64) contracts.AxisResult {
	return contracts.AxisResult{
		TopicName:  topic,
		Axis:       axis,
		PerKeyword: map[string]contracts.KeywordMetric{},
		AxisScore:  score,
	}
}

func TestAggregateThreeAxes(t *testing.T) {
	agg := newTestAggregator()
	topic := contracts.Topic{Name: "X", Keywords: []string{"x"}}

	social := axisResult("X", contracts.AxisSocial, 50)
	score := agg.Aggregate(topic,
		axisResult("X", contracts.AxisDemand, 80),
		axisResult("X", contracts.AxisCompetition, 60),
		&social,
	)

	// 0.4*80 + 0.4*60 + 0.2*50
	assert.InDelta(t, 66.0, score.Total, 1e-9)
	assert.Equal(t, 80.0, score.Demand)
	assert.Equal(t, 60.0, score.CompetitionEase)
	require.NotNil(t, score.Social)
	assert.Equal(t, 50.0, *score.Social)
}

func TestAggregateWeightRedistribution(t *testing.T) {
	agg := newTestAggregator()
	topic := contracts.Topic{Name: "X", Keywords: []string{"x"}}

	demand := axisResult("X", contracts.AxisDemand, 80)
	competition := axisResult("X", contracts.AxisCompetition, 60)

	score := agg.Aggregate(topic, demand, competition, nil)

	// Exactly the two-axis formula (0.5/0.5), not a zero-weighted
	// three-axis one
	assert.InDelta(t, 70.0, score.Total, 1e-9)
	assert.Nil(t, score.Social)

	zeroSocial := axisResult("X", contracts.AxisSocial, 0)
	withZero := agg.Aggregate(topic, demand, competition, &zeroSocial)
	assert.NotEqual(t, withZero.Total, score.Total,
		"absent social must not behave like present-but-zero social")
}

func TestAggregateClampsTotal(t *testing.T) {
	agg := newTestAggregator()
	topic := contracts.Topic{Name: "X", Keywords: []string{"x"}}

	score := agg.Aggregate(topic,
		axisResult("X", contracts.AxisDemand, 150),
		axisResult("X", contracts.AxisCompetition, 150),
		nil,
	)
	assert.Equal(t, 100.0, score.Total)

	score = agg.Aggregate(topic,
		axisResult("X", contracts.AxisDemand, -50),
		axisResult("X", contracts.AxisCompetition, -50),
		nil,
	)
	assert.Equal(t, 0.0, score.Total)
}

func TestRank(t *testing.T) {
	agg := newTestAggregator()

	scores := []contracts.CompositeScore{
		{TopicName: "low", Total: 10},
		{TopicName: "high", Total: 90},
		{TopicName: "mid", Total: 50},
	}

	ranked := agg.Rank(scores)

	require.Len(t, ranked, 3)
	assert.Equal(t, "high", ranked[0].TopicName)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, "mid", ranked[1].TopicName)
	assert.Equal(t, 2, ranked[1].Rank)
	assert.Equal(t, "low", ranked[2].TopicName)
	assert.Equal(t, 3, ranked[2].Rank)

	// Input untouched
	assert.Equal(t, "low", scores[0].TopicName)
	assert.Equal(t, 0, scores[0].Rank)
}

func TestRankResultsDuplicateNames(t *testing.T) {
	agg := newTestAggregator()

	// Duplicate topic names survive normalization, so ranks must
	// attach per entry, not per name.
	results := []contracts.TopicResult{
		{Topic: contracts.Topic{Name: "ペット保険"}, Score: contracts.CompositeScore{TopicName: "ペット保険", Total: 40}},
		{Topic: contracts.Topic{Name: "ペット保険"}, Score: contracts.CompositeScore{TopicName: "ペット保険", Total: 70}},
		{Topic: contracts.Topic{Name: "格安SIM"}, Score: contracts.CompositeScore{TopicName: "格安SIM", Total: 55}},
	}

	agg.RankResults(results)

	assert.Equal(t, 3, results[0].Score.Rank)
	assert.Equal(t, 1, results[1].Score.Rank)
	assert.Equal(t, 2, results[2].Score.Rank)
}

func TestRankResultsStableOnTies(t *testing.T) {
	agg := newTestAggregator()

	results := []contracts.TopicResult{
		{Topic: contracts.Topic{Name: "a"}, Score: contracts.CompositeScore{TopicName: "a", Total: 50}},
		{Topic: contracts.Topic{Name: "b"}, Score: contracts.CompositeScore{TopicName: "b", Total: 50}},
	}

	agg.RankResults(results)

	assert.Equal(t, 1, results[0].Score.Rank)
	assert.Equal(t, 2, results[1].Score.Rank)
}

func TestDefaultWeightsValidate(t *testing.T) {
	assert.NoError(t, DefaultWeights().Validate())
}

func TestWeightsValidateRejectsBadSums(t *testing.T) {
	w := DefaultWeights()
	w.Composite.Social = 0.5
	assert.Error(t, w.Validate())

	w = DefaultWeights()
	w.Demand.Volume = 0.9
	assert.Error(t, w.Validate())
}

func TestLoadWeights(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "weights.yaml")

	yaml := `composite:
  demand: 0.3
  competition_ease: 0.5
  social: 0.2
  demand_two_axis: 0.4
  competition_two_axis: 0.6
demand:
  interest: 0.3
  volume: 0.5
  rising: 0.2
social:
  tweets: 0.3
  engagement: 0.5
  sentiment: 0.2
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	w, err := LoadWeights(path)
	require.NoError(t, err)
	assert.Equal(t, 0.3, w.Composite.Demand)
	assert.Equal(t, 0.6, w.Composite.CompetitionTwoAxis)
}

func TestLoadWeightsRejectsUnknownFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "weights.yaml")

	yaml := `composite:
  demand: 0.4
  competition_ease: 0.4
  social: 0.2
  demand_two_axis: 0.5
  competition_two_axis: 0.5
  typo_field: 1.0
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	_, err := LoadWeights(path)
	assert.Error(t, err)
}
