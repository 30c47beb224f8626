package scoring

import (
	"fmt"

	"github.com/quantfolio/advisor/internal/contracts"
	"github.com/quantfolio/advisor/internal/strategyconfig"
	"github.com/quantfolio/advisor/pkg/logger"
)

// FundamentalScorer maps a symbol's baseline fundamentals to three
// sub-scores: valuation and yield in [-2, +2], expense ratio in [-1, +1],
// summed into a total in [-5, +5].
//
// Bond funds score yield on the spread over the risk-free rate; equity
// funds score the absolute yield. Fundamental scoring lives only here.
type FundamentalScorer struct {
	logger *logger.Logger
	cfg    *strategyconfig.Fundamental
	scale  Scale[int]
}

// NewFundamentalScorer creates a fundamental scorer from the strategy
// config bands.
func NewFundamentalScorer(log *logger.Logger, cfg *strategyconfig.Config) *FundamentalScorer {
	return &FundamentalScorer{
		logger: log,
		cfg:    &cfg.Fundamental,
		scale:  SignalScale(cfg.Fundamental.Labels),
	}
}

// Score derives the fundamental domain score. riskFree is the prevailing
// annual risk-free rate as a decimal fraction (0.045 for 4.5%). Components
// whose inputs are missing are marked invalid and omitted from the total.
func (s *FundamentalScorer) Score(baseline contracts.FundamentalBaseline, riskFree float64) *contracts.DomainScore {
	rfPct := riskFree * 100

	d := &contracts.DomainScore{
		Domain: contracts.DomainFundamental,
		Min:    -5,
		Max:    5,
		Components: []contracts.ScoreComponent{
			s.scoreValuation(baseline),
			s.scoreYield(baseline, rfPct),
			s.scoreExpense(baseline),
		},
	}

	d.Total = d.Sum()
	d.Label = s.scale.Classify(d.Total)
	d.Valid = d.ValidCount() > 0

	s.logger.WithFields(map[string]interface{}{
		"symbol": baseline.Symbol,
		"type":   string(baseline.Type),
		"total":  d.Total,
		"label":  d.Label,
		"valid":  d.ValidCount(),
	}).Debug("Scored fundamental domain")

	return d
}

// scoreValuation compares P/E against type-adjusted thresholds. Bond funds
// have no meaningful P/E, so the component is omitted rather than zeroed.
func (s *FundamentalScorer) scoreValuation(b contracts.FundamentalBaseline) contracts.ScoreComponent {
	c := contracts.ScoreComponent{Name: "valuation", Min: -2, Max: 2}

	if b.Type == contracts.FundBond {
		c.Reasons = []string{"Valuation: P/E not applicable for bond fund"}
		return c
	}
	if b.PE == nil {
		c.Reasons = []string{"Valuation: P/E data unavailable"}
		return c
	}

	band, ok := s.cfg.PEThresholds[string(b.Type)]
	if !ok {
		band = s.cfg.PEThresholds[string(contracts.FundBlend)]
	}
	c.Valid = true

	pe := *b.PE
	switch {
	case pe < band.Cheap:
		c.Score = 2
		c.Reasons = append(c.Reasons, fmt.Sprintf("Valuation: P/E=%.1f cheap vs %s peers (<%.0f) +2", pe, b.Type, band.Cheap))
	case pe < band.Fair:
		c.Score = 1
		c.Reasons = append(c.Reasons, fmt.Sprintf("Valuation: P/E=%.1f fair value (%.0f-%.0f) +1", pe, band.Cheap, band.Fair))
	case pe < band.Rich:
		c.Score = -1
		c.Reasons = append(c.Reasons, fmt.Sprintf("Valuation: P/E=%.1f stretched (%.0f-%.0f) -1", pe, band.Fair, band.Rich))
	default:
		c.Score = -2
		c.Reasons = append(c.Reasons, fmt.Sprintf("Valuation: P/E=%.1f expensive (>=%.0f) -2", pe, band.Rich))
	}

	return c
}

// scoreYield scores dividend yield. Bond funds are judged on the spread
// over the risk-free rate (both in percent); growth funds are judged
// leniently since low yield is expected; other equity types use absolute
// yield bands.
func (s *FundamentalScorer) scoreYield(b contracts.FundamentalBaseline, rfPct float64) contracts.ScoreComponent {
	c := contracts.ScoreComponent{Name: "yield", Min: -2, Max: 2}

	if b.DividendYield == nil {
		c.Reasons = []string{"Yield: dividend data unavailable"}
		return c
	}
	c.Valid = true
	yield := *b.DividendYield

	switch b.Type {
	case contracts.FundBond:
		spread := yield - rfPct
		bands := s.cfg.Yield.BondSpread
		switch {
		case spread > bands.Strong:
			c.Score = 2
			c.Reasons = append(c.Reasons, fmt.Sprintf("Yield: %.2f%% strong spread over %.2f%% T-rate (%+.1f%%) +2", yield, rfPct, spread))
		case spread > bands.Good:
			c.Score = 1
			c.Reasons = append(c.Reasons, fmt.Sprintf("Yield: %.2f%% modest spread over %.2f%% T-rate (%+.1f%%) +1", yield, rfPct, spread))
		case spread >= bands.Neutral:
			c.Reasons = append(c.Reasons, fmt.Sprintf("Yield: %.2f%% at parity with %.2f%% T-rate 0", yield, rfPct))
		case spread >= bands.Weak:
			c.Score = -1
			c.Reasons = append(c.Reasons, fmt.Sprintf("Yield: %.2f%% below T-rate %.2f%% (%+.1f%%) -1", yield, rfPct, spread))
		default:
			c.Score = -2
			c.Reasons = append(c.Reasons, fmt.Sprintf("Yield: %.2f%% significantly below T-rate %.2f%% (%+.1f%%) -2", yield, rfPct, spread))
		}

	case contracts.FundGrowth:
		// Low yield is expected for growth funds; never penalize.
		if yield >= s.cfg.Yield.Equity.Good {
			c.Score = 1
			c.Reasons = append(c.Reasons, fmt.Sprintf("Yield: %.2f%% healthy for growth fund +1", yield))
		} else {
			c.Reasons = append(c.Reasons, fmt.Sprintf("Yield: %.2f%% typical for growth fund 0", yield))
		}

	default:
		bands := s.cfg.Yield.Equity
		switch {
		case yield >= bands.Strong:
			c.Score = 2
			c.Reasons = append(c.Reasons, fmt.Sprintf("Yield: %.2f%% high income return +2", yield))
		case yield >= bands.Good:
			c.Score = 1
			c.Reasons = append(c.Reasons, fmt.Sprintf("Yield: %.2f%% healthy yield +1", yield))
		case yield >= bands.Neutral:
			c.Reasons = append(c.Reasons, fmt.Sprintf("Yield: %.2f%% modest 0", yield))
		default:
			c.Score = -1
			c.Reasons = append(c.Reasons, fmt.Sprintf("Yield: %.2f%% very low yield -1", yield))
		}
	}

	return c
}

// scoreExpense scores the annual expense ratio; lower cost scores higher.
func (s *FundamentalScorer) scoreExpense(b contracts.FundamentalBaseline) contracts.ScoreComponent {
	c := contracts.ScoreComponent{Name: "expense_ratio", Min: -1, Max: 1}

	if b.ExpenseRatio == nil {
		c.Reasons = []string{"Expense Ratio: unknown"}
		return c
	}
	c.Valid = true
	er := *b.ExpenseRatio

	switch {
	case er <= s.cfg.Expense.GoodMax:
		c.Score = 1
		c.Reasons = append(c.Reasons, fmt.Sprintf("Expense Ratio: %.4f%% low cost +1", er))
	case er <= s.cfg.Expense.NeutralMax:
		c.Reasons = append(c.Reasons, fmt.Sprintf("Expense Ratio: %.4f%% average cost 0", er))
	default:
		c.Score = -1
		c.Reasons = append(c.Reasons, fmt.Sprintf("Expense Ratio: %.4f%% above average cost -1", er))
	}

	return c
}
