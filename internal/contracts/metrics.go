package contracts

// Axis identifies one of the three measurement dimensions.
type Axis string

const (
	AxisDemand      Axis = "demand"
	AxisCompetition Axis = "competition"
	AxisSocial      Axis = "social"
)

// MetricSource records where a keyword metric came from.
type MetricSource string

const (
	SourceSynthetic MetricSource = "synthetic"
	// External sources carry the provider name (e.g. "semrush",
	// "twitter") so the dashboard can show data provenance.
)

// Trend is the search interest direction for a keyword.
type Trend string

const (
	TrendRising  Trend = "rising"
	TrendFalling Trend = "falling"
	TrendUnknown Trend = "unknown"
)

// Sentiment is the five-category social sentiment classification.
type Sentiment string

const (
	SentimentVeryPositive     Sentiment = "very_positive"
	SentimentSlightlyPositive Sentiment = "slightly_positive"
	SentimentNeutral          Sentiment = "neutral"
	SentimentSlightlyNegative Sentiment = "slightly_negative"
	SentimentVeryNegative     Sentiment = "very_negative"
)

// Value maps sentiment to the numeric scale used in the social axis score.
func (s Sentiment) Value() float64 {
	switch s {
	case SentimentVeryPositive:
		return 1.0
	case SentimentSlightlyPositive:
		return 0.5
	case SentimentSlightlyNegative:
		return -0.5
	case SentimentVeryNegative:
		return -1.0
	default:
		return 0.0
	}
}

// KeywordMetric is the raw measurement for one keyword on one axis.
// Only the fields of the owning axis are populated; the struct is kept
// flat so every axis shares one AxisResult shape.
type KeywordMetric struct {
	Keyword string       `json:"keyword"`
	Axis    Axis         `json:"axis"`
	Source  MetricSource `json:"source"`

	// Demand
	Interest      float64 `json:"interest,omitempty"`
	Trend         Trend   `json:"trend,omitempty"`
	MonthlyVolume int     `json:"monthly_volume,omitempty"`

	// Competition
	Difficulty      float64 `json:"difficulty,omitempty"`
	CompetitorCount int     `json:"competitor_count,omitempty"`

	// Social
	TweetCount     int       `json:"tweet_count,omitempty"`
	EngagementRate float64   `json:"engagement_rate,omitempty"`
	Sentiment      Sentiment `json:"sentiment,omitempty"`
}

// AxisResult holds per-keyword metrics plus the aggregated axis score for
// one topic. Results are read-only once returned by an analyzer.
type AxisResult struct {
	TopicName  string                   `json:"topic_name"`
	Axis       Axis                     `json:"axis"`
	PerKeyword map[string]KeywordMetric `json:"per_keyword"`
	AxisScore  float64                  `json:"axis_score"` // 0-100
}
