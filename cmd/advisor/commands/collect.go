package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// collectCmd represents the collect command
var collectCmd = &cobra.Command{
	Use:   "collect [symbols...]",
	Short: "Fetch daily bars and the 10-year Treasury yield",
	Long: `Fetches daily candles for the given symbols (default: the whole
configured universe) and upserts them, then refreshes the stored
risk-free rate from the Treasury yield curve.

Example:
  go run ./cmd/advisor collect
  go run ./cmd/advisor collect SPY QQQ --days 400`,
	RunE: runCollect,
}

var collectDays int

func init() {
	rootCmd.AddCommand(collectCmd)

	collectCmd.Flags().IntVar(&collectDays, "days", 500, "history depth in calendar days")
}

func runCollect(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	symbols := normalizeSymbols(args)
	if len(symbols) == 0 {
		symbols = app.strategy.Symbols()
	}

	fmt.Printf("Collecting %d days of daily bars for %d symbols...\n\n", collectDays, len(symbols))

	results := app.collector.CollectPrices(ctx, symbols, collectDays)

	widths := []int{8, 8, 40}
	PrintTableHeader([]string{"Symbol", "Bars", "Error"}, widths)

	failed := 0
	for _, res := range results {
		errMsg := ""
		if res.Error != nil {
			errMsg = res.Error.Error()
			failed++
		}
		PrintTableRow([]string{res.Symbol, fmt.Sprintf("%d", res.BarCount), errMsg}, widths)
	}

	fmt.Println()
	if err := app.collector.CollectRiskFree(ctx); err != nil {
		fmt.Printf("⚠️  Risk-free rate collection failed: %v\n", err)
	} else {
		fmt.Println("✅ Risk-free rate refreshed")
	}

	if failed > 0 {
		return fmt.Errorf("%d/%d symbols failed", failed, len(results))
	}

	fmt.Printf("✅ Collected %d symbols\n", len(results))
	return nil
}
