package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gecko435/affiliate-niche-finder-app/internal/analysis"
	"github.com/gecko435/affiliate-niche-finder-app/pkg/logger"
)

// AnalyzeHandler triggers analysis runs over a caller-supplied genre
// payload.
type AnalyzeHandler struct {
	service *analysis.Service
	logger  *logger.Logger
}

// NewAnalyzeHandler creates a new analyze handler.
func NewAnalyzeHandler(service *analysis.Service, log *logger.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{
		service: service,
		logger:  log,
	}
}

// AnalyzeRequest is the analysis trigger payload. Genres is passed to
// the normalizer untouched, so every payload shape the upstream
// collaborator can produce is accepted here.
type AnalyzeRequest struct {
	Genres json.RawMessage `json:"genres"`
}

// AnalyzeResponse wraps a completed run with its storage id.
type AnalyzeResponse struct {
	RunID  int64       `json:"run_id,omitempty"`
	Result interface{} `json:"result"`
}

// Analyze runs a full analysis synchronously
// POST /api/analyze
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.Genres) == 0 {
		respondError(w, http.StatusBadRequest, "genres payload is required")
		return
	}

	// Decode into an untyped value; the normalizer owns shape handling
	var raw interface{}
	if err := json.Unmarshal(req.Genres, &raw); err != nil {
		respondError(w, http.StatusBadRequest, "genres payload is not valid JSON")
		return
	}

	id, result, err := h.service.Analyze(r.Context(), raw)
	if err != nil {
		// The run itself succeeded; only persistence failed
		h.logger.WithError(err).Error("Run completed but was not persisted")
	}

	if len(result.Topics) == 0 && !result.Partial {
		respondError(w, http.StatusUnprocessableEntity, "no analyzable genres in payload")
		return
	}

	respondJSON(w, http.StatusOK, AnalyzeResponse{RunID: id, Result: result})
}
