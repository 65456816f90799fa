package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/gecko435/affiliate-niche-finder-app/internal/api/handlers"
	"github.com/gecko435/affiliate-niche-finder-app/pkg/logger"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	analyzeHandler *handlers.AnalyzeHandler,
	runsHandler *handlers.RunsHandler,
	suggestHandler *handlers.SuggestHandler,
	hub *ProgressHub,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	// API v1
	api := r.PathPrefix("/api").Subrouter()

	// Analysis
	api.HandleFunc("/analyze", analyzeHandler.Analyze).Methods("POST")

	// Suggestions
	api.HandleFunc("/suggest", suggestHandler.Suggest).Methods("GET")

	// Run history
	if runsHandler != nil {
		api.HandleFunc("/runs", runsHandler.List).Methods("GET")
		api.HandleFunc("/runs/latest", runsHandler.Latest).Methods("GET")
		api.HandleFunc("/runs/{id:[0-9]+}", runsHandler.Get).Methods("GET")
		api.HandleFunc("/runs/{id:[0-9]+}/topics/{name}", runsHandler.Topic).Methods("GET")
	}

	// Live progress feed
	r.HandleFunc("/ws/progress", hub.Handle)

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "niche-finder-api",
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
