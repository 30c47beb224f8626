package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/quantfolio/advisor/internal/contracts"
)

// riskCmd represents the risk command
var riskCmd = &cobra.Command{
	Use:   "risk [symbol]",
	Short: "Print the risk metrics and risk score for one symbol",
	Long: `Computes annualized volatility, beta against the benchmark, Sharpe,
maximum drawdown, VaR and Calmar over the configured window and prints
the resulting risk score. Higher scores mean safer funds.

Example:
  go run ./cmd/advisor risk QQQ`,
	Args: cobra.ExactArgs(1),
	RunE: runRisk,
}

func init() {
	rootCmd.AddCommand(riskCmd)
}

func runRisk(cmd *cobra.Command, args []string) error {
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
	if res.Metrics == nil || res.Risk == nil {
		return fmt.Errorf("no risk output for %s", symbol)
	}

	m := res.Metrics

	fmt.Println()
	PrintDoubleSeparator()
	fmt.Printf("  Risk Analysis: %s (%s, %d-day window)\n", symbol, m.AsOf.Format("2006-01-02"), m.Window)
	PrintSeparator()

	PrintKeyValue("Volatility", pctValue(m.Volatility), 14)
	PrintKeyValue("Beta", fmtValue(m.Beta, 2), 14)
	PrintKeyValue("Sharpe", fmtValue(m.Sharpe, 2), 14)
	PrintKeyValue("Max Drawdown", pctValue(m.Drawdown.Value), 14)
	PrintKeyValue("VaR 95%", pctValue(m.VaR95), 14)
	PrintKeyValue("Calmar", fmtValue(m.Calmar, 2), 14)

	printDomainScore(res.Risk)
	return nil
}

// pctValue renders a fractional value as a percentage.
func pctValue(v contracts.Value) string {
	f, ok := v.Float()
	if !ok {
		return "n/a"
	}
	return fmt.Sprintf("%.2f%%", f*100)
}
