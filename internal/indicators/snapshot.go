package indicators

import (
	"time"

	"github.com/quantfolio/advisor/internal/contracts"
	"github.com/quantfolio/advisor/pkg/logger"
)

// Snapshot holds every indicator for one symbol as of its latest bar.
// Absent values carry their own status instead of zeroes.
type Snapshot struct {
	Symbol string    `json:"symbol"`
	AsOf   time.Time `json:"as_of"`

	Open      float64         `json:"open"`
	Close     float64         `json:"close"`
	PrevClose contracts.Value `json:"prev_close"`

	SMA map[int]contracts.Value `json:"sma"`
	EMA map[int]contracts.Value `json:"ema"`

	MACD MACDResult `json:"macd"`

	RSI contracts.Value `json:"rsi"`

	Bollinger BollingerResult `json:"bollinger"`

	VolumeSMA   contracts.Value `json:"volume_sma"`
	VolumeRatio contracts.Value `json:"volume_ratio"`
	OBV         contracts.Value `json:"obv"`
	OBVSMA      contracts.Value `json:"obv_sma"`
}

// Calculator computes indicator snapshots.
// Technical indicator math lives only here.
type Calculator struct {
	logger *logger.Logger
}

// NewCalculator creates a new indicator calculator.
func NewCalculator(log *logger.Logger) *Calculator {
	return &Calculator{logger: log}
}

// Compute derives the full snapshot from a chronological price series.
// Individual indicators that lack history come back absent rather than
// failing the snapshot; only an empty series is an error.
func (c *Calculator) Compute(symbol string, series contracts.PriceSeries) (*Snapshot, error) {
	last, ok := series.Last()
	if !ok {
		return nil, &contracts.InsufficientHistoryError{What: "indicator snapshot", Need: 1, Have: 0}
	}

	closes := series.Closes()
	volumes := series.Volumes()

	snap := &Snapshot{
		Symbol: symbol,
		AsOf:   last.Date,
		Open:   last.Open,
		Close:  last.Close,
		SMA:    make(map[int]contracts.Value, len(MAPeriods)),
		EMA:    make(map[int]contracts.Value, len(MAPeriods)),
	}

	if len(closes) >= 2 {
		snap.PrevClose = contracts.Present(closes[len(closes)-2])
	} else {
		snap.PrevClose = contracts.Insufficient()
	}

	for _, p := range MAPeriods {
		snap.SMA[p] = SMA(closes, p)
		snap.EMA[p] = EMA(closes, p)
	}

	snap.MACD = MACD(closes)
	snap.RSI = RSI(closes, RSIPeriod)
	snap.Bollinger = Bollinger(closes, BollingerPeriod, BollingerK)

	snap.VolumeSMA = VolumeSMA(volumes, VolumePeriod)
	snap.VolumeRatio = VolumeRatio(volumes, VolumePeriod)
	snap.OBV = OBV(closes, volumes)
	snap.OBVSMA = OBVSMA(closes, volumes, VolumePeriod)

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"bars":   len(series),
		"as_of":  last.Date.Format("2006-01-02"),
	}).Debug("Computed indicator snapshot")

	return snap, nil
}
