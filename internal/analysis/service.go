package analysis

import (
	"context"

	"github.com/gecko435/affiliate-niche-finder-app/internal/contracts"
	"github.com/gecko435/affiliate-niche-finder-app/pkg/logger"
)

// Service runs analyses and persists the outcome. It is the single
// entry point shared by the HTTP API, the scheduler, and the CLI.
type Service struct {
	runner    *Runner
	providers Providers
	store     contracts.RunStore
	logger    *logger.Logger
}

// NewService creates the analysis service. store may be nil; results
// are then returned to the caller but not persisted.
func NewService(runner *Runner, providers Providers, store contracts.RunStore, log *logger.Logger) *Service {
	return &Service{
		runner:    runner,
		providers: providers,
		store:     store,
		logger:    log.WithField("module", "analysis"),
	}
}

// OnProgress forwards per-topic completion events from the runner.
func (s *Service) OnProgress(fn func(Progress)) {
	s.runner.OnProgress = fn
}

// Analyze runs one full analysis over a raw genre payload and saves the
// result. The returned id is 0 when no store is configured. A persist
// failure does not discard the result: the run is returned alongside
// the error.
func (s *Service) Analyze(ctx context.Context, raw any) (int64, *contracts.RunResult, error) {
	result := s.runner.Run(ctx, raw, s.providers)

	if s.store == nil {
		return 0, result, nil
	}

	id, err := s.store.SaveRun(ctx, result)
	if err != nil {
		s.logger.WithError(err).Error("Failed to persist run")
		return 0, result, err
	}

	s.logger.WithFields(map[string]interface{}{
		"run_id": id,
		"topics": len(result.Topics),
	}).Info("Run persisted")

	return id, result, nil
}
