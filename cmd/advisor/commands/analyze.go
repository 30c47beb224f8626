package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/quantfolio/advisor/internal/advisor"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [symbols...]",
	Short: "Score symbols and print the combined recommendation table",
	Long: `Runs the full pipeline for the given symbols (default: the whole
configured universe): technical indicators, risk metrics, the three
domain scorers and the weighted composite.

Example:
  go run ./cmd/advisor analyze
  go run ./cmd/advisor analyze SPY QQQ BND
  go run ./cmd/advisor analyze --save`,
	RunE: runAnalyze,
}

var analyzeSave bool

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().BoolVar(&analyzeSave, "save", false, "persist combined signals to the database")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	symbols := normalizeSymbols(args)
	if len(symbols) == 0 {
		symbols = app.strategy.Symbols()
	}

	results, err := app.engine.AnalyzeBatch(ctx, symbols)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	printSummaryTable(results)

	if analyzeSave {
		saved := 0
		for _, res := range results {
			if res.Signal == nil {
				continue
			}
			if err := app.recommendations.SaveSignal(ctx, res.Signal); err != nil {
				app.log.WithError(err).WithField("symbol", res.Symbol).Error("Failed to save signal")
				continue
			}
			saved++
		}
		fmt.Printf("\n✅ Saved %d/%d signals\n", saved, len(results))
	}

	return nil
}

// printSummaryTable mirrors the per-symbol one-line view: the three domain
// totals, the composite and the classification.
func printSummaryTable(results []advisor.Result) {
	fmt.Println()
	PrintDoubleSeparator()
	fmt.Println("  ETF Signal Summary")
	PrintSeparator()

	widths := []int{8, 10, 10, 14, 11, 12}
	PrintTableHeader([]string{"Symbol", "Technical", "Fundamental", "Risk", "Composite", "Signal"}, widths)

	for _, res := range results {
		row := []string{res.Symbol, "-", "-", "-", "-", string(res.Status)}

		if res.Technical != nil && res.Technical.Valid {
			row[1] = fmt.Sprintf("%+d (%s)", res.Technical.Total, shortLabel(res.Technical.Label))
		}
		if res.Fundamental != nil && res.Fundamental.Valid {
			row[2] = fmt.Sprintf("%+d (%s)", res.Fundamental.Total, shortLabel(res.Fundamental.Label))
		}
		if res.Risk != nil && res.Risk.Valid {
			row[3] = fmt.Sprintf("%+d (%s)", res.Risk.Total, shortLabel(res.Risk.Label))
		}
		if res.Signal != nil {
			row[4] = fmt.Sprintf("%+.3f", res.Signal.Composite)
			row[5] = res.Signal.Classification
		}

		PrintTableRow(row, widths)
	}

	PrintDoubleSeparator()
}

// shortLabel compresses multi-word labels for the summary columns.
func shortLabel(label string) string {
	switch label {
	case "STRONG BUY":
		return "S.BUY"
	case "STRONG SELL":
		return "S.SELL"
	case "HIGH RISK":
		return "HIGH"
	}
	return label
}

// normalizeSymbols upper-cases and deduplicates CLI symbol arguments.
func normalizeSymbols(args []string) []string {
	seen := make(map[string]bool, len(args))
	out := make([]string, 0, len(args))
	for _, arg := range args {
		sym := strings.ToUpper(strings.TrimSpace(arg))
		if sym == "" || seen[sym] {
			continue
		}
		seen[sym] = true
		out = append(out, sym)
	}
	return out
}
