package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gecko435/affiliate-niche-finder-app/internal/scheduler"
	"github.com/gecko435/affiliate-niche-finder-app/internal/scheduler/jobs"
	"github.com/gecko435/affiliate-niche-finder-app/internal/store"
	"github.com/gecko435/affiliate-niche-finder-app/internal/suggest"
	"github.com/gecko435/affiliate-niche-finder-app/pkg/config"
	"github.com/gecko435/affiliate-niche-finder-app/pkg/database"
	"github.com/gecko435/affiliate-niche-finder-app/pkg/logger"
	"github.com/gecko435/affiliate-niche-finder-app/pkg/redis"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run the periodic analysis scheduler",
	Long: `Starts the scheduler that refreshes the niche ranking on a cron
schedule. Each run asks the suggester for fresh genres and analyzes
them. Requires ANTHROPIC_API_KEY and DATABASE_URL.

Example:
  go run ./cmd/nichefinder scheduler
  go run ./cmd/nichefinder scheduler --schedule "0 0 */6 * * *" --count 15`,
	RunE: runScheduler,
}

var (
	schedulerSchedule string
	schedulerCount    int
)

func init() {
	rootCmd.AddCommand(schedulerCmd)

	// Flags
	schedulerCmd.Flags().StringVar(&schedulerSchedule, "schedule", "0 0 6 * * *", "cron schedule with seconds")
	schedulerCmd.Flags().IntVar(&schedulerCount, "count", 10, "genres to request per run")
}

func runScheduler(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	if cfg.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required: scheduled runs exist to build history")
	}

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	repo := store.NewRunRepository(db.Pool)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = repo.EnsureSchema(ctx)
	cancel()
	if err != nil {
		return err
	}

	redisClient, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()

	suggester, err := suggest.New(cfg, log)
	if err != nil {
		return err
	}

	service, err := buildService(cfg, log, repo, redisClient)
	if err != nil {
		return err
	}

	sched := scheduler.New(log)
	job := jobs.NewAnalysisJob(service, suggester, schedulerCount, schedulerSchedule, log)
	if err := sched.AddJob(job); err != nil {
		return err
	}

	sched.Start()
	log.WithField("schedule", schedulerSchedule).Info("Scheduler started")
	fmt.Println("Scheduler running. Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	sched.Stop()
	return nil
}
