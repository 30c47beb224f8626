package scoring

import "github.com/quantfolio/advisor/internal/strategyconfig"

// Action labels shared by the technical, fundamental and composite scales.
const (
	SignalStrongBuy  = "STRONG BUY"
	SignalBuy        = "BUY"
	SignalNeutral    = "NEUTRAL"
	SignalSell       = "SELL"
	SignalStrongSell = "STRONG SELL"
)

// Risk levels use their own vocabulary; higher totals mean safer funds.
const (
	RiskConservative = "CONSERVATIVE"
	RiskModerate     = "MODERATE"
	RiskElevated     = "ELEVATED"
	RiskHigh         = "HIGH RISK"
)

// Number covers the total types a scale can classify.
type Number interface {
	~int | ~float64
}

// Band is one labelled zone: totals at or above Min take Label.
type Band[T Number] struct {
	Min   T
	Label string
}

// Scale maps a bounded total onto ordered labels. Bands are checked top
// down, so they must be listed with descending Min; the fallback label
// covers everything below the lowest band.
type Scale[T Number] struct {
	bands    []Band[T]
	fallback string
}

// NewScale builds a scale from descending bands and a fallback label.
func NewScale[T Number](fallback string, bands ...Band[T]) Scale[T] {
	return Scale[T]{bands: bands, fallback: fallback}
}

// Classify returns the label for a total.
func (s Scale[T]) Classify(total T) string {
	for _, b := range s.bands {
		if total >= b.Min {
			return b.Label
		}
	}
	return s.fallback
}

// SignalScale builds the five-bucket action scale from configured integer
// boundaries.
func SignalScale(l strategyconfig.ScoreLabels) Scale[int] {
	return NewScale(SignalStrongSell,
		Band[int]{Min: l.StrongBuyMin, Label: SignalStrongBuy},
		Band[int]{Min: l.BuyMin, Label: SignalBuy},
		Band[int]{Min: l.NeutralMin, Label: SignalNeutral},
		Band[int]{Min: l.SellMin, Label: SignalSell},
	)
}

// CompositeScale builds the action scale over the [-1, +1] composite.
func CompositeScale(c strategyconfig.Classification) Scale[float64] {
	return NewScale(SignalStrongSell,
		Band[float64]{Min: c.StrongBuyMin, Label: SignalStrongBuy},
		Band[float64]{Min: c.BuyMin, Label: SignalBuy},
		Band[float64]{Min: c.NeutralMin, Label: SignalNeutral},
		Band[float64]{Min: c.SellMin, Label: SignalSell},
	)
}

// RiskScale builds the risk-level scale from configured boundaries.
func RiskScale(l strategyconfig.RiskLevels) Scale[int] {
	return NewScale(RiskHigh,
		Band[int]{Min: l.ConservativeMin, Label: RiskConservative},
		Band[int]{Min: l.ModerateMin, Label: RiskModerate},
		Band[int]{Min: l.ElevatedMin, Label: RiskElevated},
	)
}
