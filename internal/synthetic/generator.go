package synthetic

import (
	"crypto/sha256"
	"encoding/binary"
	"math"
	"math/rand"
	"strings"

	"github.com/gecko435/affiliate-niche-finder-app/internal/contracts"
)

// Markers tune the synthetic formulas for keyword content. The defaults
// reflect the Japanese affiliate market this tool was built for.
type Markers struct {
	// HighCompetition substrings raise the synthetic keyword difficulty.
	HighCompetition []string
	// PopularTopics substrings triple the synthetic tweet volume.
	PopularTopics []string
}

// DefaultMarkers returns the marker lists used when no overrides are
// configured.
func DefaultMarkers() Markers {
	return Markers{
		HighCompetition: []string{"方法", "やり方", "おすすめ", "ランキング", "比較"},
		PopularTopics:   []string{"食べ物", "旅行", "アニメ", "ゲーム", "健康", "スポーツ"},
	}
}

// Generator produces reproducible stand-in metrics for keywords when no
// live provider is configured or a provider call fails. The same keyword
// always yields the same metric bundle, on every process and platform,
// so offline runs and tests are exactly repeatable.
type Generator struct {
	markers Markers
}

// NewGenerator creates a generator with the given markers.
func NewGenerator(markers Markers) *Generator {
	if len(markers.HighCompetition) == 0 && len(markers.PopularTopics) == 0 {
		markers = DefaultMarkers()
	}
	return &Generator{markers: markers}
}

// Generate returns the synthetic metric for a keyword on the given axis.
// It is pure: no I/O, never fails.
func (g *Generator) Generate(keyword string, axis contracts.Axis) contracts.KeywordMetric {
	rng := rand.New(rand.NewSource(seed(keyword)))

	metric := contracts.KeywordMetric{
		Keyword: keyword,
		Axis:    axis,
		Source:  contracts.SourceSynthetic,
	}

	switch axis {
	case contracts.AxisDemand:
		g.fillDemand(rng, &metric)
	case contracts.AxisCompetition:
		g.fillCompetition(keyword, rng, &metric)
	case contracts.AxisSocial:
		g.fillSocial(keyword, rng, &metric)
	}

	return metric
}

// seed derives a stable PRNG seed from the keyword bytes. SHA-256 keeps
// the value identical across platforms regardless of string hashing.
func seed(keyword string) int64 {
	sum := sha256.Sum256([]byte(keyword))
	return int64(binary.BigEndian.Uint64(sum[:8]))
}

// fillDemand generates the demand-side metric. The synthetic path only
// covers search volume; interest and trend require a live provider and
// stay at their zero values.
func (g *Generator) fillDemand(rng *rand.Rand, m *contracts.KeywordMetric) {
	m.Interest = 0
	m.Trend = contracts.TrendUnknown
	m.MonthlyVolume = 500 + rng.Intn(9501) // 500..10000
}

// fillCompetition generates keyword difficulty and a correlated
// competitor count. Long-tail keywords get easier; keywords containing a
// high-competition marker get harder.
func (g *Generator) fillCompetition(keyword string, rng *rand.Rand, m *contracts.KeywordMetric) {
	base := rng.Float64() * 100

	// Long keywords usually face fewer competitors
	lengthFactor := float64(len([]rune(keyword))) / 10

	commonFactor := 0.0
	for _, marker := range g.markers.HighCompetition {
		if strings.Contains(keyword, marker) {
			commonFactor += 10
		}
	}

	difficulty := base + commonFactor - lengthFactor
	difficulty = math.Max(0, math.Min(100, difficulty))

	m.Difficulty = math.Round(difficulty*10) / 10
	m.CompetitorCount = int(difficulty*1000 + rng.Float64()*10000)
}

// fillSocial generates tweet volume, engagement rate and a sentiment
// drawn from a fixed weighted distribution.
func (g *Generator) fillSocial(keyword string, rng *rand.Rand, m *contracts.KeywordMetric) {
	baseTweets := 50 + rng.Intn(4951) // 50..5000

	popular := false
	for _, marker := range g.markers.PopularTopics {
		if strings.Contains(keyword, marker) {
			popular = true
			break
		}
	}
	if popular {
		baseTweets *= 3
	}

	m.TweetCount = baseTweets
	m.EngagementRate = math.Round((0.5+rng.Float64()*9.5)*100) / 100
	m.Sentiment = drawSentiment(rng)
}

// sentimentWeights is the fixed distribution for synthetic sentiment.
// Most chatter is neutral or mildly positive.
var sentimentWeights = []struct {
	sentiment contracts.Sentiment
	weight    float64
}{
	{contracts.SentimentVeryPositive, 0.20},
	{contracts.SentimentSlightlyPositive, 0.30},
	{contracts.SentimentNeutral, 0.30},
	{contracts.SentimentSlightlyNegative, 0.15},
	{contracts.SentimentVeryNegative, 0.05},
}

func drawSentiment(rng *rand.Rand) contracts.Sentiment {
	draw := rng.Float64()
	cumulative := 0.0
	for _, entry := range sentimentWeights {
		cumulative += entry.weight
		if draw < cumulative {
			return entry.sentiment
		}
	}
	return contracts.SentimentVeryNegative
}
