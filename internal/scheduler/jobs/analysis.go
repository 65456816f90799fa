package jobs

import (
	"context"
	"fmt"

	"github.com/gecko435/affiliate-niche-finder-app/internal/analysis"
	"github.com/gecko435/affiliate-niche-finder-app/internal/contracts"
	"github.com/gecko435/affiliate-niche-finder-app/pkg/logger"
)

// AnalysisJob refreshes the niche ranking on a schedule: ask the
// suggester for fresh genre ideas and run a full analysis over them.
type AnalysisJob struct {
	service   *analysis.Service
	suggester contracts.Suggester
	count     int
	schedule  string
	logger    *logger.Logger
}

// NewAnalysisJob creates the scheduled analysis job. schedule is a cron
// expression with seconds; an empty one defaults to 6 AM daily.
func NewAnalysisJob(service *analysis.Service, suggester contracts.Suggester, count int, schedule string, log *logger.Logger) *AnalysisJob {
	if count < 1 {
		count = 10
	}
	if schedule == "" {
		schedule = "0 0 6 * * *"
	}
	return &AnalysisJob{
		service:   service,
		suggester: suggester,
		count:     count,
		schedule:  schedule,
		logger:    log,
	}
}

// Name returns the job name
func (j *AnalysisJob) Name() string {
	return "niche_analysis"
}

// Schedule returns the cron schedule expression
func (j *AnalysisJob) Schedule() string {
	return j.schedule
}

// Run asks for genre suggestions and analyzes them end to end.
func (j *AnalysisJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled niche analysis")

	payload, err := j.suggester.Suggest(ctx, j.count)
	if err != nil {
		return fmt.Errorf("suggest genres: %w", err)
	}

	id, result, err := j.service.Analyze(ctx, payload)
	if err != nil {
		return fmt.Errorf("persist run: %w", err)
	}
	if len(result.Topics) == 0 {
		return fmt.Errorf("suggestion payload yielded no analyzable genres")
	}

	j.logger.WithFields(map[string]interface{}{
		"run_id": id,
		"topics": len(result.Topics),
	}).Info("Scheduled niche analysis completed")

	return nil
}
