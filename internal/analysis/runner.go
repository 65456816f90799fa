package analysis

import (
	"context"
	"sync"
	"time"

	"github.com/gecko435/affiliate-niche-finder-app/internal/contracts"
	"github.com/gecko435/affiliate-niche-finder-app/internal/normalize"
	"github.com/gecko435/affiliate-niche-finder-app/internal/scoring"
	"github.com/gecko435/affiliate-niche-finder-app/pkg/logger"
)

// Providers bundles the per-axis signal providers selected once at run
// setup. Selection never happens per call.
type Providers struct {
	Demand      contracts.SignalProvider
	Competition contracts.SignalProvider
	Social      contracts.SignalProvider
}

// Progress describes one completed topic, for live progress feeds.
type Progress struct {
	TopicName string `json:"topic_name"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
}

// Runner executes one full analysis run: normalize the raw payload,
// analyze every topic on every axis through a bounded worker pool, and
// aggregate composite scores. Topics are independent, so the pool
// shares no mutable state across them.
type Runner struct {
	normalizer  *normalize.Normalizer
	demand      *DemandAnalyzer
	competition *CompetitionAnalyzer
	social      *SocialAnalyzer
	aggregator  *scoring.Aggregator

	workers       int
	socialEnabled bool
	logger        *logger.Logger

	// OnProgress, when set, is called after each topic completes. It
	// must be safe for concurrent use.
	OnProgress func(Progress)
}

// NewRunner creates a run orchestrator.
func NewRunner(
	normalizer *normalize.Normalizer,
	demand *DemandAnalyzer,
	competition *CompetitionAnalyzer,
	social *SocialAnalyzer,
	aggregator *scoring.Aggregator,
	workers int,
	socialEnabled bool,
	log *logger.Logger,
) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{
		normalizer:    normalizer,
		demand:        demand,
		competition:   competition,
		social:        social,
		aggregator:    aggregator,
		workers:       workers,
		socialEnabled: socialEnabled,
		logger:        log.WithField("module", "analysis"),
	}
}

// Run analyzes a raw genre payload end to end. Cancellation is
// cooperative: topics finished before ctx is done are kept and the
// result is marked partial, so a hung provider call never discards all
// progress. Output order always matches normalizer output order.
func (r *Runner) Run(ctx context.Context, raw any, providers Providers) *contracts.RunResult {
	result := &contracts.RunResult{
		StartedAt: time.Now(),
	}

	topics := r.normalizer.Normalize(raw)
	if len(topics) == 0 {
		r.logger.Warn("No analyzable topics in payload")
		result.Topics = []contracts.TopicResult{}
		result.FinishedAt = time.Now()
		return result
	}

	r.logger.WithFields(map[string]interface{}{
		"topics":  len(topics),
		"workers": r.workers,
		"social":  r.socialEnabled,
	}).Info("Starting analysis run")

	// Results are written by index so concurrent completion order can
	// never change the output order.
	topicResults := make([]*contracts.TopicResult, len(topics))

	var wg sync.WaitGroup
	indexCh := make(chan int)

	var progressMu sync.Mutex
	progressCount := 0

	for w := 0; w < r.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexCh {
				select {
				case <-ctx.Done():
					return
				default:
				}

				tr := r.analyzeTopic(ctx, topics[i], providers)

				// A topic interrupted mid-analysis stays out of the
				// result; only fully analyzed topics count.
				if ctx.Err() != nil {
					return
				}

				topicResults[i] = tr

				if r.OnProgress != nil {
					progressMu.Lock()
					progressCount++
					count := progressCount
					progressMu.Unlock()
					r.OnProgress(Progress{
						TopicName: topics[i].Name,
						Completed: count,
						Total:     len(topics),
					})
				}
			}
		}()
	}

feed:
	for i := range topics {
		select {
		case indexCh <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(indexCh)
	wg.Wait()

	// Collect in input order, skipping topics the cancellation cut off
	final := make([]contracts.TopicResult, 0, len(topics))
	for i := range topicResults {
		if topicResults[i] != nil {
			final = append(final, *topicResults[i])
		}
	}

	// Re-rank over the topics that actually completed
	r.aggregator.RankResults(final)

	result.Topics = final
	result.Partial = ctx.Err() != nil && len(final) < len(topics)
	result.FinishedAt = time.Now()

	r.logger.WithFields(map[string]interface{}{
		"analyzed": len(final),
		"total":    len(topics),
		"partial":  result.Partial,
		"duration": result.FinishedAt.Sub(result.StartedAt),
	}).Info("Analysis run completed")

	return result
}

// analyzeTopic runs every axis for one topic and aggregates its score.
func (r *Runner) analyzeTopic(ctx context.Context, topic contracts.Topic, providers Providers) *contracts.TopicResult {
	demand := r.demand.Analyze(ctx, topic, providers.Demand)
	competition := r.competition.Analyze(ctx, topic, providers.Competition)

	var social *contracts.AxisResult
	if r.socialEnabled {
		s := r.social.Analyze(ctx, topic, providers.Social)
		social = &s
	}

	score := r.aggregator.Aggregate(topic, demand, competition, social)

	return &contracts.TopicResult{
		Topic:       topic,
		Demand:      demand,
		Competition: competition,
		Social:      social,
		Score:       score,
	}
}
