package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/quantfolio/advisor/internal/contracts"
)

// technicalCmd represents the technical command
var technicalCmd = &cobra.Command{
	Use:   "technical [symbol]",
	Short: "Print the technical indicator snapshot and zone scores",
	Long: `Computes the full indicator snapshot (moving averages, MACD, RSI,
Bollinger bands, volume) for one symbol and prints each component's
zone score with its reasons.

Example:
  go run ./cmd/advisor technical SPY`,
	Args: cobra.ExactArgs(1),
	RunE: runTechnical,
}

func init() {
	rootCmd.AddCommand(technicalCmd)
}

func runTechnical(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	symbol := normalizeSymbols(args)[0]

	res, err := app.engine.Analyze(ctx, symbol)
	if err != nil {
		return fmt.Errorf("analyze %s: %w", symbol, err)
	}
	if res.Snapshot == nil || res.Technical == nil {
		return fmt.Errorf("no technical output for %s", symbol)
	}

	snap := res.Snapshot

	fmt.Println()
	PrintDoubleSeparator()
	fmt.Printf("  Technical Analysis: %s (%s)\n", symbol, snap.AsOf.Format("2006-01-02"))
	PrintSeparator()

	PrintKeyValue("Close", fmt.Sprintf("%.2f", snap.Close), 14)
	PrintKeyValue("SMA 50", fmtValue(snap.SMA[50], 2), 14)
	PrintKeyValue("SMA 200", fmtValue(snap.SMA[200], 2), 14)
	PrintKeyValue("RSI 14", fmtValue(snap.RSI, 1), 14)
	PrintKeyValue("MACD Line", fmtValue(snap.MACD.Line, 3), 14)
	PrintKeyValue("MACD Signal", fmtValue(snap.MACD.Signal, 3), 14)
	PrintKeyValue("Bollinger %B", fmtValue(snap.Bollinger.PercentB, 3), 14)
	PrintKeyValue("Band Width", fmtValue(snap.Bollinger.Width, 2), 14)
	PrintKeyValue("Volume Ratio", fmtValue(snap.VolumeRatio, 2), 14)

	printDomainScore(res.Technical)
	return nil
}

// printDomainScore prints a domain's components, reasons and total.
func printDomainScore(score *contracts.DomainScore) {
	PrintSeparator()

	for _, comp := range score.Components {
		if !comp.Valid {
			fmt.Printf("   %-18s  (insufficient data)\n", comp.Name)
			continue
		}
		fmt.Printf("   %-18s %+d  [%d..%d]\n", comp.Name, comp.Score, comp.Min, comp.Max)
		for _, reason := range comp.Reasons {
			fmt.Printf("      • %s\n", reason)
		}
	}

	PrintSeparator()
	fmt.Printf("   Total: %+d / [%d..%d]  →  %s\n", score.Total, score.Min, score.Max, score.Label)
	PrintDoubleSeparator()
}
