package indicators

import (
	"math"

	"github.com/quantfolio/advisor/internal/contracts"
)

// Standard lookback windows. The scorers key off these exact periods, so
// they live here as named constants instead of call-site literals.
const (
	MACDFastPeriod   = 12
	MACDSlowPeriod   = 26
	MACDSignalPeriod = 9

	RSIPeriod = 14

	BollingerPeriod = 20
	BollingerK      = 2.0

	VolumePeriod = 20
)

// MAPeriods are the moving-average windows computed for every symbol.
var MAPeriods = []int{10, 20, 50, 200}

// SMA returns the simple moving average of the last period values.
func SMA(values []float64, period int) contracts.Value {
	if period <= 0 || len(values) < period {
		return contracts.Insufficient()
	}
	sum := 0.0
	for _, v := range values[len(values)-period:] {
		sum += v
	}
	return contracts.Present(sum / float64(period))
}

// emaSeries computes the exponential moving average series with smoothing
// 2/(period+1), seeded by the SMA of the first period values. The returned
// series has len(values)-period+1 entries aligned to values[period-1:].
func emaSeries(values []float64, period int) []float64 {
	if period <= 0 || len(values) < period {
		return nil
	}

	sum := 0.0
	for _, v := range values[:period] {
		sum += v
	}
	ema := sum / float64(period)

	alpha := 2.0 / (float64(period) + 1.0)
	out := make([]float64, 0, len(values)-period+1)
	out = append(out, ema)

	for _, v := range values[period:] {
		ema = v*alpha + ema*(1-alpha)
		out = append(out, ema)
	}
	return out
}

// EMA returns the exponential moving average of values over period.
func EMA(values []float64, period int) contracts.Value {
	series := emaSeries(values, period)
	if series == nil {
		return contracts.Insufficient()
	}
	return contracts.Present(series[len(series)-1])
}

// RSI computes the Relative Strength Index with Wilder smoothing
// (alpha = 1/period). Needs period+1 values for the seed averages.
func RSI(values []float64, period int) contracts.Value {
	if period <= 0 || len(values) < period+1 {
		return contracts.Insufficient()
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := values[i] - values[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss += -change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	alpha := 1.0 / float64(period)
	for i := period + 1; i < len(values); i++ {
		change := values[i] - values[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = gain*alpha + avgGain*(1-alpha)
		avgLoss = loss*alpha + avgLoss*(1-alpha)
	}

	if avgLoss == 0 {
		// Defined fallback for the zero-loss case, including flat series.
		return contracts.Present(100.0)
	}

	rs := avgGain / avgLoss
	return contracts.Present(100.0 - 100.0/(1.0+rs))
}

// MACDResult carries the three MACD outputs.
type MACDResult struct {
	Line      contracts.Value `json:"line"`
	Signal    contracts.Value `json:"signal"`
	Histogram contracts.Value `json:"histogram"`
}

// MACD computes line = EMA12 - EMA26, signal = EMA9 of the line series and
// histogram = line - signal. The line needs 26 bars; the signal needs enough
// line points to seed its own EMA (34 bars total).
func MACD(values []float64) MACDResult {
	fast := emaSeries(values, MACDFastPeriod)
	slow := emaSeries(values, MACDSlowPeriod)
	if slow == nil {
		return MACDResult{
			Line:      contracts.Insufficient(),
			Signal:    contracts.Insufficient(),
			Histogram: contracts.Insufficient(),
		}
	}

	// Align the fast series to the slow one; slow is the shorter tail.
	offset := len(fast) - len(slow)
	line := make([]float64, len(slow))
	for i := range slow {
		line[i] = fast[i+offset] - slow[i]
	}

	result := MACDResult{Line: contracts.Present(line[len(line)-1])}

	signal := emaSeries(line, MACDSignalPeriod)
	if signal == nil {
		result.Signal = contracts.Insufficient()
		result.Histogram = contracts.Insufficient()
		return result
	}

	sig := signal[len(signal)-1]
	result.Signal = contracts.Present(sig)
	result.Histogram = contracts.Present(line[len(line)-1] - sig)
	return result
}

// BollingerResult carries the band levels plus the derived %B and width.
type BollingerResult struct {
	Upper  contracts.Value `json:"upper"`
	Middle contracts.Value `json:"middle"`
	Lower  contracts.Value `json:"lower"`

	// PercentB locates the close inside the band: 0 at the lower band,
	// 1 at the upper band. Degenerate when the band has zero width.
	PercentB contracts.Value `json:"percent_b"`

	// Width is (upper-lower)/middle as a percentage.
	Width contracts.Value `json:"width"`
}

// Bollinger computes period-bar bands at k sample standard deviations.
func Bollinger(values []float64, period int, k float64) BollingerResult {
	absent := func(v contracts.Value) BollingerResult {
		return BollingerResult{Upper: v, Middle: v, Lower: v, PercentB: v, Width: v}
	}

	if period < 2 || len(values) < period {
		return absent(contracts.Insufficient())
	}

	window := values[len(values)-period:]
	mean := 0.0
	for _, v := range window {
		mean += v
	}
	mean /= float64(period)

	variance := 0.0
	for _, v := range window {
		d := v - mean
		variance += d * d
	}
	// Sample standard deviation.
	sd := math.Sqrt(variance / float64(period-1))

	upper := mean + k*sd
	lower := mean - k*sd

	result := BollingerResult{
		Upper:  contracts.Present(upper),
		Middle: contracts.Present(mean),
		Lower:  contracts.Present(lower),
	}

	close := values[len(values)-1]
	if upper == lower {
		result.PercentB = contracts.Degenerate()
		result.Width = contracts.Present(0)
		return result
	}
	result.PercentB = contracts.Present((close - lower) / (upper - lower))

	if mean == 0 {
		result.Width = contracts.Degenerate()
	} else {
		result.Width = contracts.Present((upper - lower) / mean * 100)
	}
	return result
}

// obvSeries computes the cumulative on-balance volume, one point per bar,
// starting at zero.
func obvSeries(closes []float64, volumes []int64) []float64 {
	if len(closes) == 0 || len(closes) != len(volumes) {
		return nil
	}
	out := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		switch {
		case closes[i] > closes[i-1]:
			out[i] = out[i-1] + float64(volumes[i])
		case closes[i] < closes[i-1]:
			out[i] = out[i-1] - float64(volumes[i])
		default:
			out[i] = out[i-1]
		}
	}
	return out
}

// OBV returns the latest on-balance volume. Needs at least two bars to
// register a single up or down day.
func OBV(closes []float64, volumes []int64) contracts.Value {
	series := obvSeries(closes, volumes)
	if len(series) < 2 {
		return contracts.Insufficient()
	}
	return contracts.Present(series[len(series)-1])
}

// OBVSMA returns the SMA of the on-balance volume series over period.
func OBVSMA(closes []float64, volumes []int64, period int) contracts.Value {
	series := obvSeries(closes, volumes)
	if series == nil {
		return contracts.Insufficient()
	}
	return SMA(series, period)
}

// VolumeSMA returns the simple moving average of volume over period.
func VolumeSMA(volumes []int64, period int) contracts.Value {
	if period <= 0 || len(volumes) < period {
		return contracts.Insufficient()
	}
	sum := 0.0
	for _, v := range volumes[len(volumes)-period:] {
		sum += float64(v)
	}
	return contracts.Present(sum / float64(period))
}

// VolumeRatio returns today's volume divided by its period-bar SMA.
// Degenerate when the average volume is zero.
func VolumeRatio(volumes []int64, period int) contracts.Value {
	avg := VolumeSMA(volumes, period)
	mean, ok := avg.Float()
	if !ok {
		return avg
	}
	if mean == 0 {
		return contracts.Degenerate()
	}
	return contracts.Present(float64(volumes[len(volumes)-1]) / mean)
}
