package strategyconfig

import "github.com/quantfolio/advisor/internal/contracts"

// Config is the full scoring strategy definition. Every tunable the
// scorers and aggregator use comes from here, never from code constants.
type Config struct {
	Meta        Meta        `yaml:"meta" json:"meta"`
	Aggregation Aggregation `yaml:"aggregation" json:"aggregation"`
	Technical   Technical   `yaml:"technical" json:"technical"`
	Fundamental Fundamental `yaml:"fundamental" json:"fundamental"`
	Risk        Risk        `yaml:"risk" json:"risk"`
	Baselines   []Baseline  `yaml:"baselines" json:"baselines"`
}

// Meta identifies the strategy.
type Meta struct {
	StrategyID string `yaml:"strategy_id" json:"strategy_id"`
	Version    string `yaml:"version" json:"version"`
	Benchmark  string `yaml:"benchmark" json:"benchmark"`
}

// Aggregation holds the domain weights and composite classification bands.
type Aggregation struct {
	Weights        Weights        `yaml:"weights" json:"weights"`
	Classification Classification `yaml:"classification" json:"classification"`
}

// Weights are the domain blend fractions; they must sum to 1.0.
type Weights struct {
	Technical   float64 `yaml:"technical" json:"technical"`
	Fundamental float64 `yaml:"fundamental" json:"fundamental"`
	Risk        float64 `yaml:"risk" json:"risk"`
}

// Sum returns the total weight.
func (w Weights) Sum() float64 {
	return w.Technical + w.Fundamental + w.Risk
}

// Classification maps the composite in [-1, +1] onto action labels.
// Boundaries must be strictly descending.
type Classification struct {
	StrongBuyMin float64 `yaml:"strong_buy_min" json:"strong_buy_min"`
	BuyMin       float64 `yaml:"buy_min" json:"buy_min"`
	NeutralMin   float64 `yaml:"neutral_min" json:"neutral_min"`
	SellMin      float64 `yaml:"sell_min" json:"sell_min"`
}

// Technical holds the technical-domain label boundaries. The total ranges
// over [-10, +10].
type Technical struct {
	Labels ScoreLabels `yaml:"labels" json:"labels"`
}

// ScoreLabels are integer boundaries for a domain total, descending.
type ScoreLabels struct {
	StrongBuyMin int `yaml:"strong_buy_min" json:"strong_buy_min"`
	BuyMin       int `yaml:"buy_min" json:"buy_min"`
	NeutralMin   int `yaml:"neutral_min" json:"neutral_min"`
	SellMin      int `yaml:"sell_min" json:"sell_min"`
}

// Fundamental holds valuation, yield and expense scoring bands.
type Fundamental struct {
	PEThresholds map[string]PEBand `yaml:"pe_thresholds" json:"pe_thresholds"`
	Yield        YieldBands        `yaml:"yield" json:"yield"`
	Expense      ExpenseBands      `yaml:"expense" json:"expense"`
	Labels       ScoreLabels       `yaml:"labels" json:"labels"`
}

// PEBand bounds valuation zones for one fund type.
// PE below Cheap scores +2, below Fair +1, below Rich -1, at or above -2.
type PEBand struct {
	Cheap float64 `yaml:"cheap" json:"cheap"`
	Fair  float64 `yaml:"fair" json:"fair"`
	Rich  float64 `yaml:"rich" json:"rich"`
}

// YieldBands split yield scoring between bond funds (spread over the
// risk-free rate, in percentage points) and equity funds (absolute yield).
type YieldBands struct {
	BondSpread BondSpreadBands `yaml:"bond_spread" json:"bond_spread"`
	Equity     EquityYieldBands `yaml:"equity" json:"equity"`
}

// BondSpreadBands score yield minus the risk-free rate, both in percent.
type BondSpreadBands struct {
	Strong  float64 `yaml:"strong" json:"strong"`
	Good    float64 `yaml:"good" json:"good"`
	Neutral float64 `yaml:"neutral" json:"neutral"`
	Weak    float64 `yaml:"weak" json:"weak"`
}

// EquityYieldBands score the absolute dividend yield in percent.
type EquityYieldBands struct {
	Strong  float64 `yaml:"strong" json:"strong"`
	Good    float64 `yaml:"good" json:"good"`
	Neutral float64 `yaml:"neutral" json:"neutral"`
}

// ExpenseBands score the annual expense ratio in percent.
type ExpenseBands struct {
	GoodMax    float64 `yaml:"good_max" json:"good_max"`
	NeutralMax float64 `yaml:"neutral_max" json:"neutral_max"`
}

// Risk holds the risk-domain window, bands and level boundaries. Higher
// risk totals mean safer funds.
type Risk struct {
	WindowDays int `yaml:"window_days" json:"window_days"`

	VolatilityPct VolatilityBands `yaml:"volatility_pct" json:"volatility_pct"`
	DrawdownPct   DrawdownBands   `yaml:"drawdown_pct" json:"drawdown_pct"`
	Sharpe        SharpeBands     `yaml:"sharpe" json:"sharpe"`
	Levels        RiskLevels      `yaml:"levels" json:"levels"`
}

// VolatilityBands score annualized volatility in percent, ascending.
type VolatilityBands struct {
	VeryLow  float64 `yaml:"very_low" json:"very_low"`
	Low      float64 `yaml:"low" json:"low"`
	Moderate float64 `yaml:"moderate" json:"moderate"`
	High     float64 `yaml:"high" json:"high"`
}

// DrawdownBands score the max drawdown in percent (negative), descending.
type DrawdownBands struct {
	Shallow  float64 `yaml:"shallow" json:"shallow"`
	Moderate float64 `yaml:"moderate" json:"moderate"`
	Deep     float64 `yaml:"deep" json:"deep"`
	Severe   float64 `yaml:"severe" json:"severe"`
}

// SharpeBands score the Sharpe ratio, descending.
type SharpeBands struct {
	Excellent float64 `yaml:"excellent" json:"excellent"`
	Good      float64 `yaml:"good" json:"good"`
	Neutral   float64 `yaml:"neutral" json:"neutral"`
	Poor      float64 `yaml:"poor" json:"poor"`
}

// RiskLevels are the integer boundaries for the risk-level label.
type RiskLevels struct {
	ConservativeMin int `yaml:"conservative_min" json:"conservative_min"`
	ModerateMin     int `yaml:"moderate_min" json:"moderate_min"`
	ElevatedMin     int `yaml:"elevated_min" json:"elevated_min"`
}

// Baseline is one symbol's configured fundamentals.
type Baseline struct {
	Symbol        string   `yaml:"symbol" json:"symbol"`
	Type          string   `yaml:"type" json:"type"`
	PE            *float64 `yaml:"pe,omitempty" json:"pe,omitempty"`
	DividendYield *float64 `yaml:"dividend_yield,omitempty" json:"dividend_yield,omitempty"`
	ExpenseRatio  *float64 `yaml:"expense_ratio,omitempty" json:"expense_ratio,omitempty"`
}

// Contract converts a baseline into the shared data contract.
func (b Baseline) Contract() contracts.FundamentalBaseline {
	return contracts.FundamentalBaseline{
		Symbol:        b.Symbol,
		Type:          contracts.FundType(b.Type),
		PE:            b.PE,
		DividendYield: b.DividendYield,
		ExpenseRatio:  b.ExpenseRatio,
	}
}

// Baseline looks up the configured fundamentals for a symbol.
func (c *Config) Baseline(symbol string) (contracts.FundamentalBaseline, bool) {
	for _, b := range c.Baselines {
		if b.Symbol == symbol {
			return b.Contract(), true
		}
	}
	return contracts.FundamentalBaseline{}, false
}

// Symbols returns every symbol with a configured baseline, in file order.
func (c *Config) Symbols() []string {
	out := make([]string, len(c.Baselines))
	for i, b := range c.Baselines {
		out[i] = b.Symbol
	}
	return out
}
