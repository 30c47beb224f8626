package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// fundamentalCmd represents the fundamental command
var fundamentalCmd = &cobra.Command{
	Use:   "fundamental [symbols...]",
	Short: "Print the fundamental baseline table and scores",
	Long: `Scores the configured fundamental baselines (P/E, dividend yield,
expense ratio) against the current risk-free rate.

Example:
  go run ./cmd/advisor fundamental
  go run ./cmd/advisor fundamental BND XLE`,
	RunE: runFundamental,
}

func init() {
	rootCmd.AddCommand(fundamentalCmd)
}

func runFundamental(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	symbols := normalizeSymbols(args)
	if len(symbols) == 0 {
		symbols = app.strategy.Symbols()
	}

	riskFree := app.engine.RiskFreeRate(ctx)

	fmt.Println()
	PrintDoubleSeparator()
	fmt.Printf("  Fundamental Analysis (risk-free %.2f%%)\n", riskFree*100)
	PrintSeparator()

	widths := []int{8, 14, 8, 8, 8, 8, 12}
	PrintTableHeader([]string{"Symbol", "Type", "P/E", "Yield", "ER", "Score", "Signal"}, widths)

	for _, symbol := range symbols {
		baseline, ok := app.strategy.Baseline(symbol)
		if !ok {
			PrintTableRow([]string{symbol, "-", "-", "-", "-", "-", "no baseline"}, widths)
			continue
		}

		score := app.engine.ScoreFundamental(baseline, riskFree)

		pe, yield, er := "-", "-", "-"
		if baseline.PE != nil {
			pe = fmt.Sprintf("%.1f", *baseline.PE)
		}
		if baseline.DividendYield != nil {
			yield = fmt.Sprintf("%.2f%%", *baseline.DividendYield)
		}
		if baseline.ExpenseRatio != nil {
			er = fmt.Sprintf("%.3f%%", *baseline.ExpenseRatio)
		}

		PrintTableRow([]string{
			symbol,
			string(baseline.Type),
			pe,
			yield,
			er,
			fmt.Sprintf("%+d", score.Total),
			score.Label,
		}, widths)
	}

	PrintDoubleSeparator()
	return nil
}
