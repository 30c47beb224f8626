package strategyconfig

import (
	"fmt"
	"math"

	"github.com/quantfolio/advisor/internal/contracts"
)

// Validate checks all required constraints.
// Any failure aborts startup.
func Validate(cfg *Config) error {
	fail := func(field, reason string) error {
		return &contracts.ConfigurationError{Field: field, Reason: reason}
	}

	// === Meta ===
	if cfg.Meta.StrategyID == "" {
		return fail("meta.strategy_id", "required")
	}
	if cfg.Meta.Benchmark == "" {
		return fail("meta.benchmark", "required")
	}

	// === Aggregation ===
	w := cfg.Aggregation.Weights
	if w.Technical <= 0 || w.Fundamental <= 0 || w.Risk <= 0 {
		return fail("aggregation.weights", "each weight must be > 0")
	}
	if math.Abs(w.Sum()-1.0) > 1e-6 {
		return fail("aggregation.weights", fmt.Sprintf("must sum to 1.0, got %.6f", w.Sum()))
	}

	cl := cfg.Aggregation.Classification
	if !(cl.StrongBuyMin > cl.BuyMin && cl.BuyMin > cl.NeutralMin && cl.NeutralMin > cl.SellMin) {
		return fail("aggregation.classification", "boundaries must be strictly descending")
	}
	if cl.StrongBuyMin > 1.0 || cl.SellMin < -1.0 {
		return fail("aggregation.classification", "boundaries must lie inside [-1, +1]")
	}

	// === Technical ===
	if err := validateScoreLabels("technical.labels", cfg.Technical.Labels, -10, 10); err != nil {
		return err
	}

	// === Fundamental ===
	if len(cfg.Fundamental.PEThresholds) == 0 {
		return fail("fundamental.pe_thresholds", "required")
	}
	for name, band := range cfg.Fundamental.PEThresholds {
		if !contracts.FundType(name).Valid() {
			return fail("fundamental.pe_thresholds", fmt.Sprintf("unknown fund type %q", name))
		}
		if band.Cheap <= 0 || band.Fair <= band.Cheap || band.Rich < band.Fair {
			return fail(fmt.Sprintf("fundamental.pe_thresholds.%s", name), "must satisfy 0 < cheap < fair <= rich")
		}
	}

	bs := cfg.Fundamental.Yield.BondSpread
	if !(bs.Strong > bs.Good && bs.Good > bs.Neutral && bs.Neutral > bs.Weak) {
		return fail("fundamental.yield.bond_spread", "bands must be strictly descending")
	}
	eq := cfg.Fundamental.Yield.Equity
	if !(eq.Strong > eq.Good && eq.Good > eq.Neutral && eq.Neutral >= 0) {
		return fail("fundamental.yield.equity", "bands must be strictly descending and non-negative")
	}
	ex := cfg.Fundamental.Expense
	if ex.GoodMax <= 0 || ex.NeutralMax <= ex.GoodMax {
		return fail("fundamental.expense", "must satisfy 0 < good_max < neutral_max")
	}
	if err := validateScoreLabels("fundamental.labels", cfg.Fundamental.Labels, -5, 5); err != nil {
		return err
	}

	// === Risk ===
	// The window must exceed the longest indicator lookback (SMA 200).
	if cfg.Risk.WindowDays <= 200 {
		return fail("risk.window_days", fmt.Sprintf("must be > 200, got %d", cfg.Risk.WindowDays))
	}
	vb := cfg.Risk.VolatilityPct
	if !(0 < vb.VeryLow && vb.VeryLow < vb.Low && vb.Low < vb.Moderate && vb.Moderate < vb.High) {
		return fail("risk.volatility_pct", "bands must be positive and strictly ascending")
	}
	db := cfg.Risk.DrawdownPct
	if !(0 > db.Shallow && db.Shallow > db.Moderate && db.Moderate > db.Deep && db.Deep > db.Severe) {
		return fail("risk.drawdown_pct", "bands must be negative and strictly descending")
	}
	sb := cfg.Risk.Sharpe
	if !(sb.Excellent > sb.Good && sb.Good > sb.Neutral && sb.Neutral > sb.Poor) {
		return fail("risk.sharpe", "bands must be strictly descending")
	}
	lv := cfg.Risk.Levels
	if !(lv.ConservativeMin > lv.ModerateMin && lv.ModerateMin > lv.ElevatedMin) {
		return fail("risk.levels", "boundaries must be strictly descending")
	}

	// === Baselines ===
	if len(cfg.Baselines) == 0 {
		return fail("baselines", "at least one symbol required")
	}
	seen := make(map[string]bool, len(cfg.Baselines))
	benchmarkFound := false
	for i, b := range cfg.Baselines {
		field := fmt.Sprintf("baselines[%d]", i)
		if b.Symbol == "" {
			return fail(field+".symbol", "required")
		}
		if seen[b.Symbol] {
			return fail(field+".symbol", fmt.Sprintf("duplicate symbol %q", b.Symbol))
		}
		seen[b.Symbol] = true
		if b.Symbol == cfg.Meta.Benchmark {
			benchmarkFound = true
		}

		if !contracts.FundType(b.Type).Valid() {
			return fail(field+".type", fmt.Sprintf("unknown fund type %q", b.Type))
		}
		if b.PE != nil && *b.PE <= 0 {
			return fail(field+".pe", "must be > 0 when set")
		}
		if b.DividendYield != nil && *b.DividendYield < 0 {
			return fail(field+".dividend_yield", "must be >= 0 when set")
		}
		if b.ExpenseRatio != nil && *b.ExpenseRatio < 0 {
			return fail(field+".expense_ratio", "must be >= 0 when set")
		}
	}
	if !benchmarkFound {
		return fail("meta.benchmark", fmt.Sprintf("benchmark %q must have a baseline entry", cfg.Meta.Benchmark))
	}

	return nil
}

// validateScoreLabels checks descending integer boundaries within a range.
func validateScoreLabels(field string, l ScoreLabels, min, max int) error {
	if !(l.StrongBuyMin > l.BuyMin && l.BuyMin > l.NeutralMin && l.NeutralMin > l.SellMin) {
		return &contracts.ConfigurationError{Field: field, Reason: "boundaries must be strictly descending"}
	}
	if l.StrongBuyMin > max || l.SellMin < min {
		return &contracts.ConfigurationError{
			Field:  field,
			Reason: fmt.Sprintf("boundaries must lie inside [%d, %d]", min, max),
		}
	}
	return nil
}
