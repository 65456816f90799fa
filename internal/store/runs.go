package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gecko435/affiliate-niche-finder-app/internal/contracts"
)

// ErrRunNotFound is returned when no run matches the requested id, or
// when the history is empty.
var ErrRunNotFound = errors.New("run not found")

// RunSummary is the list-view projection of a stored run.
type RunSummary struct {
	ID         int64     `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Partial    bool      `json:"partial"`
	TopicCount int       `json:"topic_count"`
}

// RunRepository persists completed analysis runs. Topics are stored as
// one JSONB document per run: the presentation layer always reads a run
// whole, never per topic.
type RunRepository struct {
	pool *pgxpool.Pool
}

// NewRunRepository creates a run repository.
func NewRunRepository(pool *pgxpool.Pool) *RunRepository {
	return &RunRepository{pool: pool}
}

// Schema is the DDL the repository expects. Applied at startup so a
// fresh database works without a separate migration step.
const Schema = `
	CREATE TABLE IF NOT EXISTS analysis_runs (
		id          BIGSERIAL PRIMARY KEY,
		started_at  TIMESTAMPTZ NOT NULL,
		finished_at TIMESTAMPTZ NOT NULL,
		partial     BOOLEAN NOT NULL DEFAULT FALSE,
		topic_count INT NOT NULL,
		topics      JSONB NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_analysis_runs_started_at
		ON analysis_runs (started_at DESC);
`

// EnsureSchema creates the runs table if it does not exist.
func (r *RunRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to ensure runs schema: %w", err)
	}
	return nil
}

// SaveRun inserts a completed run and returns its id.
func (r *RunRepository) SaveRun(ctx context.Context, result *contracts.RunResult) (int64, error) {
	topicsJSON, err := json.Marshal(result.Topics)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal topics: %w", err)
	}

	query := `
		INSERT INTO analysis_runs (started_at, finished_at, partial, topic_count, topics)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var id int64
	err = r.pool.QueryRow(ctx, query,
		result.StartedAt, result.FinishedAt, result.Partial, len(result.Topics), topicsJSON,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to save run: %w", err)
	}

	return id, nil
}

// GetRun retrieves one run by id.
func (r *RunRepository) GetRun(ctx context.Context, id int64) (*contracts.RunResult, error) {
	query := `
		SELECT started_at, finished_at, partial, topics
		FROM analysis_runs
		WHERE id = $1
	`
	return r.scanRun(r.pool.QueryRow(ctx, query, id))
}

// LatestRun retrieves the most recently started run.
func (r *RunRepository) LatestRun(ctx context.Context) (int64, *contracts.RunResult, error) {
	query := `
		SELECT id, started_at, finished_at, partial, topics
		FROM analysis_runs
		ORDER BY started_at DESC, id DESC
		LIMIT 1
	`

	var (
		id         int64
		result     contracts.RunResult
		topicsJSON []byte
	)
	err := r.pool.QueryRow(ctx, query).Scan(
		&id, &result.StartedAt, &result.FinishedAt, &result.Partial, &topicsJSON,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil, ErrRunNotFound
	}
	if err != nil {
		return 0, nil, fmt.Errorf("failed to load latest run: %w", err)
	}

	if err := json.Unmarshal(topicsJSON, &result.Topics); err != nil {
		return 0, nil, fmt.Errorf("failed to unmarshal topics: %w", err)
	}

	return id, &result, nil
}

// ListRuns returns run summaries, newest first, without topic payloads.
func (r *RunRepository) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit < 1 {
		limit = 20
	}

	query := `
		SELECT id, started_at, finished_at, partial, topic_count
		FROM analysis_runs
		ORDER BY started_at DESC, id DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	summaries := make([]RunSummary, 0, limit)
	for rows.Next() {
		var s RunSummary
		if err := rows.Scan(&s.ID, &s.StartedAt, &s.FinishedAt, &s.Partial, &s.TopicCount); err != nil {
			return nil, fmt.Errorf("failed to scan run summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}

	return summaries, nil
}

func (r *RunRepository) scanRun(row pgx.Row) (*contracts.RunResult, error) {
	var (
		result     contracts.RunResult
		topicsJSON []byte
	)
	err := row.Scan(&result.StartedAt, &result.FinishedAt, &result.Partial, &topicsJSON)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run: %w", err)
	}

	if err := json.Unmarshal(topicsJSON, &result.Topics); err != nil {
		return nil, fmt.Errorf("failed to unmarshal topics: %w", err)
	}

	return &result, nil
}
