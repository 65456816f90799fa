package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gecko435/affiliate-niche-finder-app/internal/analysis"
	"github.com/gecko435/affiliate-niche-finder-app/internal/api"
	"github.com/gecko435/affiliate-niche-finder-app/internal/api/handlers"
	"github.com/gecko435/affiliate-niche-finder-app/internal/contracts"
	"github.com/gecko435/affiliate-niche-finder-app/internal/store"
	"github.com/gecko435/affiliate-niche-finder-app/internal/suggest"
	"github.com/gecko435/affiliate-niche-finder-app/pkg/config"
	"github.com/gecko435/affiliate-niche-finder-app/pkg/database"
	"github.com/gecko435/affiliate-niche-finder-app/pkg/logger"
	"github.com/gecko435/affiliate-niche-finder-app/pkg/redis"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Starts the REST API server backing the dashboard.

Endpoints:
  GET  /health                         - Health check
  POST /api/analyze                    - Run an analysis over a genre payload
  GET  /api/suggest                    - Ask for genre suggestions
  GET  /api/runs                       - List stored runs
  GET  /api/runs/latest                - Latest run in full
  GET  /api/runs/{id}                  - One run by id
  GET  /api/runs/{id}/topics/{name}    - Per-keyword drill-down
  GET  /ws/progress                    - Live per-topic progress feed

Example:
  go run ./cmd/nichefinder api
  go run ./cmd/nichefinder api --port 8089`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if apiPort != "" {
		cfg.Port = apiPort
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	// 3. Connect to database when configured; the API degrades to
	// in-memory-only runs without one
	var runRepo *store.RunRepository
	if cfg.Database.URL != "" {
		db, err := database.New(cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()

		runRepo = store.NewRunRepository(db.Pool)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err = runRepo.EnsureSchema(ctx)
		cancel()
		if err != nil {
			return err
		}
		log.Info("Connected to database")
	} else {
		log.Warn("DATABASE_URL not set, run history disabled")
	}

	// 4. Connect to Redis (no-op client when disabled)
	redisClient, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()

	// 5. Build the analysis pipeline
	var runStore contracts.RunStore
	if runRepo != nil {
		runStore = runRepo
	}
	service, err := buildService(cfg, log, runStore, redisClient)
	if err != nil {
		return err
	}

	// 6. Progress hub feeds the websocket clients
	hub := api.NewProgressHub(log)
	service.OnProgress(func(p analysis.Progress) {
		hub.Broadcast(p)
	})

	// 7. Suggester is optional; the endpoint reports unavailable
	// without a key
	var suggester contracts.Suggester
	if s, err := suggest.New(cfg, log); err == nil {
		suggester = s
	} else {
		log.WithError(err).Warn("Genre suggester disabled")
	}

	var suggestCache *redis.Cache
	if redisClient.Enabled() {
		suggestCache = redis.NewCache(redisClient, "niche")
	}

	// 8. Handlers and router
	analyzeHandler := handlers.NewAnalyzeHandler(service, log)
	suggestHandler := handlers.NewSuggestHandler(suggester, suggestCache, log)
	var runsHandler *handlers.RunsHandler
	if runRepo != nil {
		runsHandler = handlers.NewRunsHandler(runRepo, log)
	}

	router := api.NewRouter(analyzeHandler, runsHandler, suggestHandler, hub, log)

	// 9. Start server with graceful shutdown
	server := api.New(cfg, log, router)

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
