package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gecko435/affiliate-niche-finder-app/internal/contracts"
	"github.com/gecko435/affiliate-niche-finder-app/pkg/logger"
	"github.com/gecko435/affiliate-niche-finder-app/pkg/redis"
)

// SuggestHandler serves genre suggestions. Replies are cached per count
// so repeated dashboard loads do not burn API quota.
type SuggestHandler struct {
	suggester contracts.Suggester
	cache     *redis.Cache
	logger    *logger.Logger
}

// NewSuggestHandler creates a new suggest handler. cache may be nil.
func NewSuggestHandler(suggester contracts.Suggester, cache *redis.Cache, log *logger.Logger) *SuggestHandler {
	return &SuggestHandler{
		suggester: suggester,
		cache:     cache,
		logger:    log,
	}
}

// Suggest returns genre ideas from the upstream collaborator
// GET /api/suggest?count=10
func (h *SuggestHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	if h.suggester == nil {
		respondError(w, http.StatusServiceUnavailable, "suggester is not configured")
		return
	}

	count := 10
	if v := r.URL.Query().Get("count"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 50 {
			respondError(w, http.StatusBadRequest, "count must be between 1 and 50")
			return
		}
		count = parsed
	}

	cacheKey := fmt.Sprintf("suggest:%d", count)
	if h.cache != nil {
		var cached interface{}
		found, err := h.cache.Get(r.Context(), cacheKey, &cached)
		if err != nil {
			h.logger.WithError(err).Warn("Suggestion cache read failed")
		}
		if found {
			respondJSON(w, http.StatusOK, map[string]interface{}{"genres": cached, "cached": true})
			return
		}
	}

	payload, err := h.suggester.Suggest(r.Context(), count)
	if err != nil {
		h.logger.WithError(err).Error("Suggestion request failed")
		respondError(w, http.StatusBadGateway, "suggestion request failed")
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(r.Context(), cacheKey, payload, redis.TTLLong); err != nil {
			h.logger.WithError(err).Warn("Suggestion cache write failed")
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"genres": payload, "cached": false})
}
