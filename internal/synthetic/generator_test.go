package synthetic

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gecko435/affiliate-niche-finder-app/internal/contracts"
)

func TestGenerateDeterminism(t *testing.T) {
	gen := NewGenerator(DefaultMarkers())

	keywords := []string{"エシカルファッション", "格安旅行", "xyzxyzxyz123", ""}
	axes := []contracts.Axis{contracts.AxisDemand, contracts.AxisCompetition, contracts.AxisSocial}

	for _, keyword := range keywords {
		for _, axis := range axes {
			first := gen.Generate(keyword, axis)
			second := gen.Generate(keyword, axis)
			assert.Equal(t, first, second, "keyword %q axis %s must be reproducible", keyword, axis)
		}
	}

	// A fresh generator instance produces the same values too
	other := NewGenerator(DefaultMarkers())
	assert.Equal(t,
		gen.Generate("健康食品", contracts.AxisSocial),
		other.Generate("健康食品", contracts.AxisSocial),
	)
}

func TestGenerateDemand(t *testing.T) {
	gen := NewGenerator(DefaultMarkers())

	m := gen.Generate("格安旅行", contracts.AxisDemand)

	assert.Equal(t, contracts.AxisDemand, m.Axis)
	assert.Equal(t, contracts.SourceSynthetic, m.Source)

	// Synthetic demand covers search volume only; interest and trend
	// need a live provider
	assert.Equal(t, 0.0, m.Interest)
	assert.Equal(t, contracts.TrendUnknown, m.Trend)
	assert.GreaterOrEqual(t, m.MonthlyVolume, 500)
	assert.LessOrEqual(t, m.MonthlyVolume, 10000)
}

func TestGenerateCompetitionBounds(t *testing.T) {
	gen := NewGenerator(DefaultMarkers())

	keywords := []string{"比較", "おすすめランキング比較", "a", "とても長いロングテールキーワードの例です"}
	for _, keyword := range keywords {
		m := gen.Generate(keyword, contracts.AxisCompetition)
		assert.GreaterOrEqual(t, m.Difficulty, 0.0, "keyword %q", keyword)
		assert.LessOrEqual(t, m.Difficulty, 100.0, "keyword %q", keyword)
		assert.GreaterOrEqual(t, m.CompetitorCount, 0, "keyword %q", keyword)
	}
}

func TestHighCompetitionMarkerRaisesDifficulty(t *testing.T) {
	// The base draw depends only on the keyword, so the same keyword
	// evaluated with and without a matching marker isolates the marker
	// boost from the random component.
	matching := NewGenerator(Markers{
		HighCompetition: []string{"方法"},
		PopularTopics:   []string{"unmatched"},
	})
	nonMatching := NewGenerator(Markers{
		HighCompetition: []string{"unmatched"},
		PopularTopics:   []string{"unmatched"},
	})

	keyword := "稼ぐ方法"
	harder := matching.Generate(keyword, contracts.AxisCompetition)
	easier := nonMatching.Generate(keyword, contracts.AxisCompetition)

	// Equality only happens when the base draw already clamps at 100
	assert.GreaterOrEqual(t, harder.Difficulty, easier.Difficulty)
	if easier.Difficulty <= 90 {
		assert.InDelta(t, easier.Difficulty+10, harder.Difficulty, 0.101)
	}
}

func TestGenerateSocial(t *testing.T) {
	gen := NewGenerator(DefaultMarkers())

	m := gen.Generate("プログラミング学習", contracts.AxisSocial)

	assert.GreaterOrEqual(t, m.TweetCount, 50)
	assert.GreaterOrEqual(t, m.EngagementRate, 0.5)
	assert.LessOrEqual(t, m.EngagementRate, 10.0)
	assert.Contains(t, []contracts.Sentiment{
		contracts.SentimentVeryPositive,
		contracts.SentimentSlightlyPositive,
		contracts.SentimentNeutral,
		contracts.SentimentSlightlyNegative,
		contracts.SentimentVeryNegative,
	}, m.Sentiment)
}

func TestPopularTopicTriplesTweets(t *testing.T) {
	// The seed depends only on the keyword, so matching the marker or
	// not yields exactly the same base draw. Compare a generator whose
	// marker list matches the keyword against one whose list does not.
	custom := NewGenerator(Markers{
		HighCompetition: []string{"none"},
		PopularTopics:   []string{"ゲーム"},
	})
	plain := NewGenerator(Markers{
		HighCompetition: []string{"none"},
		PopularTopics:   []string{"unmatched"},
	})

	keyword := "ゲーム実況"
	boosted := custom.Generate(keyword, contracts.AxisSocial)
	base := plain.Generate(keyword, contracts.AxisSocial)

	assert.Equal(t, base.TweetCount*3, boosted.TweetCount)
}

func TestProviderFetch(t *testing.T) {
	gen := NewGenerator(DefaultMarkers())
	provider := NewProvider(gen, contracts.AxisCompetition)

	m, err := provider.Fetch(context.Background(), "比較")
	require.NoError(t, err)

	assert.Equal(t, "synthetic", provider.Name())
	assert.Equal(t, gen.Generate("比較", contracts.AxisCompetition), m)
}
