package contracts

import "time"

// CompositeScore is the single weighted ranking value for one topic.
// Total is a convex combination of the axis scores that produced data:
// the weights in use always sum to 1.
type CompositeScore struct {
	TopicName       string   `json:"topic_name"`
	Total           float64  `json:"total"` // 0-100
	Demand          float64  `json:"demand"`
	CompetitionEase float64  `json:"competition_ease"`
	Social          *float64 `json:"social,omitempty"` // nil when the social axis did not run
	Rank            int      `json:"rank"`
}

// TopicResult bundles everything produced for one topic: the axis detail
// for drill-down views plus the composite score.
type TopicResult struct {
	Topic       Topic          `json:"topic"`
	Demand      AxisResult     `json:"demand"`
	Competition AxisResult     `json:"competition"`
	Social      *AxisResult    `json:"social,omitempty"`
	Score       CompositeScore `json:"score"`
}

// RunResult is the immutable outcome of one analysis run. The caller owns
// it; a new run produces a new RunResult, never a patch of an old one.
type RunResult struct {
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Partial    bool          `json:"partial"` // true when the run was cancelled mid-way
	Topics     []TopicResult `json:"topics"`  // normalizer output order
}

// Scores returns the topic-name → composite-score mapping consumed by the
// presentation layer. Duplicate topic names resolve last-write-wins.
func (r *RunResult) Scores() map[string]CompositeScore {
	scores := make(map[string]CompositeScore, len(r.Topics))
	for _, t := range r.Topics {
		scores[t.Topic.Name] = t.Score
	}
	return scores
}
