package commands

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gecko435/affiliate-niche-finder-app/internal/suggest"
	"github.com/gecko435/affiliate-niche-finder-app/pkg/config"
	"github.com/gecko435/affiliate-niche-finder-app/pkg/logger"
)

// suggestCmd represents the suggest command
var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Ask for affiliate genre suggestions",
	Long: `Asks the Claude genre suggester for promising affiliate genres
and prints the raw payload as JSON. Requires ANTHROPIC_API_KEY.

Example:
  go run ./cmd/nichefinder suggest --count 5`,
	RunE: runSuggest,
}

var suggestCount int

func init() {
	rootCmd.AddCommand(suggestCmd)

	// Flags
	suggestCmd.Flags().IntVar(&suggestCount, "count", 10, "number of genres to request")
}

func runSuggest(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg)

	suggester, err := suggest.New(cfg, log)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	payload, err := suggester.Suggest(ctx, suggestCount)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
