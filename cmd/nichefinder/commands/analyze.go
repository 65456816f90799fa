package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gecko435/affiliate-niche-finder-app/internal/contracts"
	"github.com/gecko435/affiliate-niche-finder-app/internal/store"
	"github.com/gecko435/affiliate-niche-finder-app/internal/suggest"
	"github.com/gecko435/affiliate-niche-finder-app/pkg/config"
	"github.com/gecko435/affiliate-niche-finder-app/pkg/database"
	"github.com/gecko435/affiliate-niche-finder-app/pkg/logger"
	"github.com/gecko435/affiliate-niche-finder-app/pkg/redis"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run one analysis from the command line",
	Long: `Runs a full niche analysis and prints the ranked result.

The genre payload comes from --input (a JSON file) or, with --suggest,
from the Claude genre suggester. Results are persisted when a database
is configured.

Example:
  go run ./cmd/nichefinder analyze --input genres.json
  go run ./cmd/nichefinder analyze --suggest --count 10
  go run ./cmd/nichefinder analyze --input genres.json --json`,
	RunE: runAnalyze,
}

var (
	analyzeInput      string
	analyzeUseSuggest bool
	analyzeCount      int
	analyzeJSON       bool
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Flags
	analyzeCmd.Flags().StringVar(&analyzeInput, "input", "", "JSON file holding the genre payload")
	analyzeCmd.Flags().BoolVar(&analyzeUseSuggest, "suggest", false, "ask the genre suggester for input")
	analyzeCmd.Flags().IntVar(&analyzeCount, "count", 10, "number of genres to request with --suggest")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the full result as JSON")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if analyzeInput == "" && !analyzeUseSuggest {
		return fmt.Errorf("either --input or --suggest is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Optional persistence
	var runStore contracts.RunStore
	if cfg.Database.URL != "" {
		db, err := database.New(cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()

		repo := store.NewRunRepository(db.Pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			return err
		}
		runStore = repo
	}

	redisClient, err := redis.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()

	service, err := buildService(cfg, log, runStore, redisClient)
	if err != nil {
		return err
	}

	// Resolve the genre payload
	var raw any
	if analyzeUseSuggest {
		suggester, err := suggest.New(cfg, log)
		if err != nil {
			return err
		}
		raw, err = suggester.Suggest(ctx, analyzeCount)
		if err != nil {
			return err
		}
	} else {
		data, err := os.ReadFile(analyzeInput)
		if err != nil {
			return fmt.Errorf("read input file: %w", err)
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("parse input file: %w", err)
		}
	}

	id, result, err := service.Analyze(ctx, raw)
	if err != nil {
		return err
	}

	if analyzeJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	printRunResult(id, result)
	return nil
}

// printRunResult renders the ranked topics as a plain table.
func printRunResult(id int64, result *contracts.RunResult) {
	if len(result.Topics) == 0 {
		fmt.Println("No analyzable genres in payload")
		return
	}

	fmt.Printf("Analyzed %d genres in %s", len(result.Topics), result.FinishedAt.Sub(result.StartedAt).Round(time.Millisecond))
	if id > 0 {
		fmt.Printf(" (run #%d)", id)
	}
	if result.Partial {
		fmt.Print(" [partial]")
	}
	fmt.Println()
	fmt.Println()

	// Show in rank order
	byRank := make([]contracts.TopicResult, len(result.Topics))
	copy(byRank, result.Topics)
	sort.Slice(byRank, func(i, j int) bool {
		return byRank[i].Score.Rank < byRank[j].Score.Rank
	})

	fmt.Printf("%-4s %-30s %8s %8s %8s %8s\n", "Rank", "Genre", "Total", "Demand", "Ease", "Social")
	for _, tr := range byRank {
		social := "-"
		if tr.Score.Social != nil {
			social = fmt.Sprintf("%.1f", *tr.Score.Social)
		}
		fmt.Printf("%-4d %-30s %8.1f %8.1f %8.1f %8s\n",
			tr.Score.Rank, tr.Topic.Name, tr.Score.Total,
			tr.Score.Demand, tr.Score.CompetitionEase, social)
	}
}
