package advisor

import (
	"time"

	"github.com/quantfolio/advisor/internal/contracts"
	"github.com/quantfolio/advisor/internal/scoring"
	"github.com/quantfolio/advisor/internal/strategyconfig"
	"github.com/quantfolio/advisor/pkg/logger"
)

// Aggregator combines the three domain totals into one composite signal.
// It is the only component that reads all three domains at once.
//
// Each total is first normalized to [-1, +1] by its own maximum magnitude,
// then blended with the configured weights. With the default 0.40/0.30/0.30
// split a fully bullish symbol lands at exactly +1.0.
type Aggregator struct {
	logger  *logger.Logger
	weights strategyconfig.Weights
	scale   scoring.Scale[float64]
}

// NewAggregator creates an aggregator from the validated strategy config.
func NewAggregator(log *logger.Logger, cfg *strategyconfig.Config) *Aggregator {
	return &Aggregator{
		logger:  log,
		weights: cfg.Aggregation.Weights,
		scale:   scoring.CompositeScale(cfg.Aggregation.Classification),
	}
}

// Combine builds the combined signal for one symbol. A missing or invalid
// domain score fails with AggregationInputError: the caller decides how to
// treat partial data, it never happens implicitly here.
func (a *Aggregator) Combine(symbol string, asOf time.Time, technical, fundamental, riskScore *contracts.DomainScore) (*contracts.CombinedSignal, error) {
	var missing []string
	if technical == nil || !technical.Valid {
		missing = append(missing, contracts.DomainTechnical)
	}
	if fundamental == nil || !fundamental.Valid {
		missing = append(missing, contracts.DomainFundamental)
	}
	if riskScore == nil || !riskScore.Valid {
		missing = append(missing, contracts.DomainRisk)
	}
	if len(missing) > 0 {
		return nil, &contracts.AggregationInputError{Symbol: symbol, Missing: missing}
	}

	composite := a.weights.Technical*float64(technical.Total)/float64(technical.Max) +
		a.weights.Fundamental*float64(fundamental.Total)/float64(fundamental.Max) +
		a.weights.Risk*float64(riskScore.Total)/float64(riskScore.Max)

	signal := &contracts.CombinedSignal{
		Symbol:         symbol,
		AsOf:           asOf,
		Technical:      technical,
		Fundamental:    fundamental,
		Risk:           riskScore,
		Composite:      composite,
		Classification: a.scale.Classify(composite),
	}

	a.logger.WithFields(map[string]interface{}{
		"symbol":         symbol,
		"technical":      technical.Total,
		"fundamental":    fundamental.Total,
		"risk":           riskScore.Total,
		"composite":      composite,
		"classification": signal.Classification,
	}).Info("Combined signal")

	return signal, nil
}
