package scoring

import (
	"fmt"

	"github.com/quantfolio/advisor/internal/contracts"
	"github.com/quantfolio/advisor/internal/risk"
	"github.com/quantfolio/advisor/internal/strategyconfig"
	"github.com/quantfolio/advisor/pkg/logger"
)

// RiskScorer maps risk metrics to three sub-scores, each in [-2, +2],
// summed into a total in [-6, +6].
//
// Polarity is inverted versus the other two domains: HIGHER MEANS SAFER.
// A +6 is a sleepy bond fund, a -6 is a volatile drawdown-prone fund.
type RiskScorer struct {
	logger *logger.Logger
	cfg    *strategyconfig.Risk
	scale  Scale[int]
}

// NewRiskScorer creates a risk scorer from the strategy config bands.
func NewRiskScorer(log *logger.Logger, cfg *strategyconfig.Config) *RiskScorer {
	return &RiskScorer{
		logger: log,
		cfg:    &cfg.Risk,
		scale:  RiskScale(cfg.Risk.Levels),
	}
}

// Score derives the risk domain score from computed metrics. Metrics that
// are absent invalidate their component; they are omitted, not zeroed.
func (s *RiskScorer) Score(m *risk.Metrics) *contracts.DomainScore {
	d := &contracts.DomainScore{
		Domain: contracts.DomainRisk,
		Min:    -6,
		Max:    6,
		Components: []contracts.ScoreComponent{
			s.scoreVolatility(m),
			s.scoreDrawdown(m),
			s.scoreSharpe(m),
		},
	}

	d.Total = d.Sum()
	d.Label = s.scale.Classify(d.Total)
	d.Valid = d.ValidCount() > 0

	s.logger.WithFields(map[string]interface{}{
		"symbol": m.Symbol,
		"total":  d.Total,
		"level":  d.Label,
		"valid":  d.ValidCount(),
	}).Debug("Scored risk domain")

	return d
}

// scoreVolatility bands annualized volatility in percent; calmer is safer.
func (s *RiskScorer) scoreVolatility(m *risk.Metrics) contracts.ScoreComponent {
	c := contracts.ScoreComponent{Name: "volatility", Min: -2, Max: 2}

	vol, ok := m.Volatility.Float()
	if !ok {
		c.Reasons = []string{"Volatility: insufficient data"}
		return c
	}
	c.Valid = true
	volPct := vol * 100
	b := s.cfg.VolatilityPct

	switch {
	case volPct < b.VeryLow:
		c.Score = 2
		c.Reasons = append(c.Reasons, fmt.Sprintf("Volatility: %.1f%% very low +2", volPct))
	case volPct < b.Low:
		c.Score = 1
		c.Reasons = append(c.Reasons, fmt.Sprintf("Volatility: %.1f%% low +1", volPct))
	case volPct < b.Moderate:
		c.Reasons = append(c.Reasons, fmt.Sprintf("Volatility: %.1f%% moderate 0", volPct))
	case volPct < b.High:
		c.Score = -1
		c.Reasons = append(c.Reasons, fmt.Sprintf("Volatility: %.1f%% elevated -1", volPct))
	default:
		c.Score = -2
		c.Reasons = append(c.Reasons, fmt.Sprintf("Volatility: %.1f%% high -2", volPct))
	}

	return c
}

// scoreDrawdown bands the worst peak-to-trough loss in percent; shallower
// is safer.
func (s *RiskScorer) scoreDrawdown(m *risk.Metrics) contracts.ScoreComponent {
	c := contracts.ScoreComponent{Name: "max_drawdown", Min: -2, Max: 2}

	dd, ok := m.Drawdown.Value.Float()
	if !ok {
		c.Reasons = []string{"Drawdown: insufficient data"}
		return c
	}
	c.Valid = true
	ddPct := dd * 100
	b := s.cfg.DrawdownPct

	switch {
	case ddPct > b.Shallow:
		c.Score = 2
		c.Reasons = append(c.Reasons, fmt.Sprintf("Drawdown: %.1f%% shallow +2", ddPct))
	case ddPct > b.Moderate:
		c.Score = 1
		c.Reasons = append(c.Reasons, fmt.Sprintf("Drawdown: %.1f%% contained +1", ddPct))
	case ddPct > b.Deep:
		c.Reasons = append(c.Reasons, fmt.Sprintf("Drawdown: %.1f%% moderate 0", ddPct))
	case ddPct > b.Severe:
		c.Score = -1
		c.Reasons = append(c.Reasons, fmt.Sprintf("Drawdown: %.1f%% deep -1", ddPct))
	default:
		c.Score = -2
		c.Reasons = append(c.Reasons, fmt.Sprintf("Drawdown: %.1f%% severe -2", ddPct))
	}

	return c
}

// scoreSharpe bands risk-adjusted return; a higher Sharpe is safer money.
func (s *RiskScorer) scoreSharpe(m *risk.Metrics) contracts.ScoreComponent {
	c := contracts.ScoreComponent{Name: "sharpe", Min: -2, Max: 2}

	sharpe, ok := m.Sharpe.Float()
	if !ok {
		c.Reasons = []string{"Sharpe: " + m.Sharpe.Status().String() + " data"}
		return c
	}
	c.Valid = true
	b := s.cfg.Sharpe

	switch {
	case sharpe > b.Excellent:
		c.Score = 2
		c.Reasons = append(c.Reasons, fmt.Sprintf("Sharpe: %.2f excellent risk-adjusted return +2", sharpe))
	case sharpe > b.Good:
		c.Score = 1
		c.Reasons = append(c.Reasons, fmt.Sprintf("Sharpe: %.2f good risk-adjusted return +1", sharpe))
	case sharpe > b.Neutral:
		c.Reasons = append(c.Reasons, fmt.Sprintf("Sharpe: %.2f marginal 0", sharpe))
	case sharpe > b.Poor:
		c.Score = -1
		c.Reasons = append(c.Reasons, fmt.Sprintf("Sharpe: %.2f weak -1", sharpe))
	default:
		c.Score = -2
		c.Reasons = append(c.Reasons, fmt.Sprintf("Sharpe: %.2f poor -2", sharpe))
	}

	return c
}
