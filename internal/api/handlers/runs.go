package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/gecko435/affiliate-niche-finder-app/internal/contracts"
	"github.com/gecko435/affiliate-niche-finder-app/internal/store"
	"github.com/gecko435/affiliate-niche-finder-app/pkg/logger"
)

// RunReader is the read side of run persistence the handlers need.
type RunReader interface {
	GetRun(ctx context.Context, id int64) (*contracts.RunResult, error)
	LatestRun(ctx context.Context) (int64, *contracts.RunResult, error)
	ListRuns(ctx context.Context, limit int) ([]store.RunSummary, error)
}

// RunsHandler serves stored run results to the presentation layer.
type RunsHandler struct {
	runs   RunReader
	logger *logger.Logger
}

// NewRunsHandler creates a new runs handler.
func NewRunsHandler(runs RunReader, log *logger.Logger) *RunsHandler {
	return &RunsHandler{
		runs:   runs,
		logger: log,
	}
}

// List returns run summaries, newest first
// GET /api/runs?limit=20
func (h *RunsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	summaries, err := h.runs.ListRuns(r.Context(), limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list runs")
		respondError(w, http.StatusInternalServerError, "failed to list runs")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"runs": summaries})
}

// Latest returns the most recent run in full
// GET /api/runs/latest
func (h *RunsHandler) Latest(w http.ResponseWriter, r *http.Request) {
	id, result, err := h.runs.LatestRun(r.Context())
	if errors.Is(err, store.ErrRunNotFound) {
		respondError(w, http.StatusNotFound, "no runs recorded yet")
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to load latest run")
		respondError(w, http.StatusInternalServerError, "failed to load latest run")
		return
	}

	respondJSON(w, http.StatusOK, AnalyzeResponse{RunID: id, Result: result})
}

// Get returns one run by id
// GET /api/runs/{id}
func (h *RunsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "run id must be an integer")
		return
	}

	result, err := h.runs.GetRun(r.Context(), id)
	if errors.Is(err, store.ErrRunNotFound) {
		respondError(w, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to load run")
		respondError(w, http.StatusInternalServerError, "failed to load run")
		return
	}

	respondJSON(w, http.StatusOK, AnalyzeResponse{RunID: id, Result: result})
}

// Topic returns the per-keyword drill-down for one topic of a run
// GET /api/runs/{id}/topics/{name}
func (h *RunsHandler) Topic(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "run id must be an integer")
		return
	}
	name := vars["name"]

	result, err := h.runs.GetRun(r.Context(), id)
	if errors.Is(err, store.ErrRunNotFound) {
		respondError(w, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to load run")
		respondError(w, http.StatusInternalServerError, "failed to load run")
		return
	}

	for _, topic := range result.Topics {
		if topic.Topic.Name == name {
			respondJSON(w, http.StatusOK, topic)
			return
		}
	}

	respondError(w, http.StatusNotFound, "topic not found in run")
}
