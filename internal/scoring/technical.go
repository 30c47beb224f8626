package scoring

import (
	"fmt"

	"github.com/quantfolio/advisor/internal/contracts"
	"github.com/quantfolio/advisor/internal/indicators"
	"github.com/quantfolio/advisor/internal/strategyconfig"
	"github.com/quantfolio/advisor/pkg/logger"
)

// TechnicalScorer maps an indicator snapshot to five sub-scores, each in
// [-2, +2], summed into a total in [-10, +10].
// Technical scoring lives only here.
type TechnicalScorer struct {
	logger *logger.Logger
	scale  Scale[int]
}

// NewTechnicalScorer creates a technical scorer with configured label
// boundaries.
func NewTechnicalScorer(log *logger.Logger, cfg *strategyconfig.Config) *TechnicalScorer {
	return &TechnicalScorer{
		logger: log,
		scale:  SignalScale(cfg.Technical.Labels),
	}
}

// Score derives the technical domain score. Components whose inputs are
// absent are marked invalid and excluded from the total; they are never
// counted as zero.
func (s *TechnicalScorer) Score(snap *indicators.Snapshot) *contracts.DomainScore {
	d := &contracts.DomainScore{
		Domain: contracts.DomainTechnical,
		Min:    -10,
		Max:    10,
		Components: []contracts.ScoreComponent{
			s.scoreMovingAverages(snap),
			s.scoreMACD(snap),
			s.scoreRSI(snap),
			s.scoreBollinger(snap),
			s.scoreVolume(snap),
		},
	}

	d.Total = d.Sum()
	d.Label = s.scale.Classify(d.Total)
	d.Valid = d.ValidCount() > 0

	s.logger.WithFields(map[string]interface{}{
		"symbol": snap.Symbol,
		"total":  d.Total,
		"label":  d.Label,
		"valid":  d.ValidCount(),
	}).Debug("Scored technical domain")

	return d
}

// scoreMovingAverages adds the SMA50/SMA200 trend direction and the price
// position relative to SMA50, one point each.
func (s *TechnicalScorer) scoreMovingAverages(snap *indicators.Snapshot) contracts.ScoreComponent {
	c := contracts.ScoreComponent{Name: "moving_averages", Min: -2, Max: 2}

	sma50, ok50 := snap.SMA[50].Float()
	sma200, ok200 := snap.SMA[200].Float()
	if !ok50 || !ok200 {
		c.Reasons = []string{"MA: insufficient data"}
		return c
	}
	c.Valid = true

	switch {
	case sma50 > sma200:
		c.Score++
		c.Reasons = append(c.Reasons, "MA: Golden Cross (SMA50 > SMA200) +1")
	case sma50 < sma200:
		c.Score--
		c.Reasons = append(c.Reasons, "MA: Death Cross (SMA50 < SMA200) -1")
	default:
		c.Reasons = append(c.Reasons, "MA: SMA50 at SMA200 0")
	}

	switch {
	case snap.Close > sma50:
		c.Score++
		c.Reasons = append(c.Reasons, "MA: price above SMA50 +1")
	case snap.Close < sma50:
		c.Score--
		c.Reasons = append(c.Reasons, "MA: price below SMA50 -1")
	default:
		c.Reasons = append(c.Reasons, "MA: price at SMA50 0")
	}

	return c
}

// scoreMACD scores the line/signal crossover, with zero-line confirmation
// pushing the score to the extremes.
func (s *TechnicalScorer) scoreMACD(snap *indicators.Snapshot) contracts.ScoreComponent {
	c := contracts.ScoreComponent{Name: "macd", Min: -2, Max: 2}

	line, okLine := snap.MACD.Line.Float()
	signal, okSignal := snap.MACD.Signal.Float()
	if !okLine || !okSignal {
		c.Reasons = []string{"MACD: insufficient data"}
		return c
	}
	c.Valid = true

	switch {
	case line > signal && line > 0:
		c.Score = 2
		c.Reasons = append(c.Reasons, "MACD: line above signal and positive +2")
	case line < signal && line < 0:
		c.Score = -2
		c.Reasons = append(c.Reasons, "MACD: line below signal and negative -2")
	case line > signal:
		c.Score = 1
		c.Reasons = append(c.Reasons, "MACD: bullish crossover without zero-line confirmation +1")
	case line < signal:
		c.Score = -1
		c.Reasons = append(c.Reasons, "MACD: bearish crossover without zero-line confirmation -1")
	default:
		c.Reasons = append(c.Reasons, "MACD: flat 0")
	}

	return c
}

// scoreRSI maps RSI onto five momentum zones.
func (s *TechnicalScorer) scoreRSI(snap *indicators.Snapshot) contracts.ScoreComponent {
	c := contracts.ScoreComponent{Name: "rsi", Min: -2, Max: 2}

	rsi, ok := snap.RSI.Float()
	if !ok {
		c.Reasons = []string{"RSI: insufficient data"}
		return c
	}
	c.Valid = true

	switch {
	case rsi < 30:
		c.Score = 2
		c.Reasons = append(c.Reasons, fmt.Sprintf("RSI: oversold (%.1f) +2", rsi))
	case rsi < 40:
		c.Score = 1
		c.Reasons = append(c.Reasons, fmt.Sprintf("RSI: approaching oversold (%.1f) +1", rsi))
	case rsi <= 60:
		c.Reasons = append(c.Reasons, fmt.Sprintf("RSI: neutral (%.1f) 0", rsi))
	case rsi <= 70:
		c.Score = -1
		c.Reasons = append(c.Reasons, fmt.Sprintf("RSI: approaching overbought (%.1f) -1", rsi))
	default:
		c.Score = -2
		c.Reasons = append(c.Reasons, fmt.Sprintf("RSI: overbought (%.1f) -2", rsi))
	}

	return c
}

// scoreBollinger maps %B onto five band-position zones. A degenerate %B
// (zero-width band) invalidates the component.
func (s *TechnicalScorer) scoreBollinger(snap *indicators.Snapshot) contracts.ScoreComponent {
	c := contracts.ScoreComponent{Name: "bollinger", Min: -2, Max: 2}

	pctB, ok := snap.Bollinger.PercentB.Float()
	if !ok {
		c.Reasons = []string{"BB: " + snap.Bollinger.PercentB.Status().String() + " data"}
		return c
	}
	c.Valid = true

	switch {
	case pctB < 0:
		c.Score = 2
		c.Reasons = append(c.Reasons, fmt.Sprintf("BB: below lower band (%%B=%.2f) oversold +2", pctB))
	case pctB < 0.3:
		c.Score = 1
		c.Reasons = append(c.Reasons, fmt.Sprintf("BB: near lower band (%%B=%.2f) +1", pctB))
	case pctB <= 0.7:
		c.Reasons = append(c.Reasons, fmt.Sprintf("BB: middle of bands (%%B=%.2f) 0", pctB))
	case pctB <= 1.0:
		c.Score = -1
		c.Reasons = append(c.Reasons, fmt.Sprintf("BB: near upper band (%%B=%.2f) -1", pctB))
	default:
		c.Score = -2
		c.Reasons = append(c.Reasons, fmt.Sprintf("BB: above upper band (%%B=%.2f) overbought -2", pctB))
	}

	return c
}

// scoreVolume adds the OBV trend versus its average and conviction from
// heavy volume on a directional day, one point each.
func (s *TechnicalScorer) scoreVolume(snap *indicators.Snapshot) contracts.ScoreComponent {
	c := contracts.ScoreComponent{Name: "volume", Min: -2, Max: 2}

	obv, okOBV := snap.OBV.Float()
	obvSMA, okAvg := snap.OBVSMA.Float()
	ratio, okRatio := snap.VolumeRatio.Float()
	if !okOBV || !okAvg || !okRatio {
		c.Reasons = []string{"Volume: insufficient data"}
		return c
	}
	c.Valid = true

	switch {
	case obv > obvSMA:
		c.Score++
		c.Reasons = append(c.Reasons, "Vol: OBV above average (buyers in control) +1")
	case obv < obvSMA:
		c.Score--
		c.Reasons = append(c.Reasons, "Vol: OBV below average (sellers in control) -1")
	default:
		c.Reasons = append(c.Reasons, "Vol: OBV at average 0")
	}

	direction := snap.Close - snap.Open
	switch {
	case ratio >= 1.5 && direction > 0:
		c.Score++
		c.Reasons = append(c.Reasons, fmt.Sprintf("Vol: high volume up day (%.1fx) conviction +1", ratio))
	case ratio >= 1.5 && direction < 0:
		c.Score--
		c.Reasons = append(c.Reasons, fmt.Sprintf("Vol: high volume down day (%.1fx) selling pressure -1", ratio))
	default:
		c.Reasons = append(c.Reasons, fmt.Sprintf("Vol: normal volume (%.1fx) 0", ratio))
	}

	return c
}
