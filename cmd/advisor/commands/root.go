package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	strategyFile string
	verbose      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "advisor",
	Short: "ETF signal scoring and aggregation engine",
	Long: `Advisor CLI

Scores an ETF universe across three domains (technical, fundamental,
risk) and aggregates them into a single composite recommendation.

Usage:
  go run ./cmd/advisor [command]

Examples:
  go run ./cmd/advisor analyze
  go run ./cmd/advisor analyze SPY QQQ
  go run ./cmd/advisor technical SPY
  go run ./cmd/advisor collect
  go run ./cmd/advisor api
  go run ./cmd/advisor scheduler start`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&strategyFile, "strategy", "", "strategy YAML file (default from STRATEGY_PATH)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
