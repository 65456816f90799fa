package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	env        string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "nichefinder",
	Short: "Affiliate niche finder for the Japanese market",
	Long: `Niche Finder CLI

Ranks affiliate marketing genres by demand, competition, and social
engagement into a single opportunity score.

Usage:
  go run ./cmd/nichefinder [command]

Examples:
  go run ./cmd/nichefinder api
  go run ./cmd/nichefinder analyze --input genres.json
  go run ./cmd/nichefinder analyze --suggest --count 10
  go run ./cmd/nichefinder suggest --count 5
  go run ./cmd/nichefinder scheduler`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "development", "environment (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
