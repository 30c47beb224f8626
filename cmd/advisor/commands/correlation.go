package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// correlationCmd represents the correlation command
var correlationCmd = &cobra.Command{
	Use:   "correlation",
	Short: "Print the pairwise return correlation matrix",
	Long: `Computes pairwise daily-return correlations across the configured
universe over the risk window and prints them as a matrix.

Example:
  go run ./cmd/advisor correlation`,
	RunE: runCorrelation,
}

func init() {
	rootCmd.AddCommand(correlationCmd)
}

func runCorrelation(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	matrix, asOf, err := app.engine.Correlations(ctx)
	if err != nil {
		return fmt.Errorf("correlations: %w", err)
	}

	fmt.Println()
	PrintDoubleSeparator()
	fmt.Printf("  Return Correlations (%s)\n", asOf.Format("2006-01-02"))
	PrintSeparator()

	// Header row
	fmt.Printf("%-8s", "")
	for _, sym := range matrix.Symbols {
		fmt.Printf("%8s", sym)
	}
	fmt.Println()

	for _, row := range matrix.Symbols {
		fmt.Printf("%-8s", row)
		for _, col := range matrix.Symbols {
			if v, ok := matrix.At(row, col).Float(); ok {
				fmt.Printf("%8.2f", v)
			} else {
				fmt.Printf("%8s", "n/a")
			}
		}
		fmt.Println()
	}

	PrintDoubleSeparator()
	return nil
}
