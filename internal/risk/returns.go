package risk

import (
	"math"
	"time"

	"github.com/quantfolio/advisor/internal/contracts"
)

// ReturnPoint is one dated simple daily return.
type ReturnPoint struct {
	Date  time.Time
	Value float64
}

// DailyReturns converts a chronological price series into simple daily
// returns (close/prevClose - 1). Bars with a non-positive previous close
// are skipped; pct-change against zero is meaningless.
func DailyReturns(series contracts.PriceSeries) []ReturnPoint {
	if len(series) < 2 {
		return nil
	}
	out := make([]ReturnPoint, 0, len(series)-1)
	for i := 1; i < len(series); i++ {
		prev := series[i-1].Close
		if prev <= 0 {
			continue
		}
		out = append(out, ReturnPoint{
			Date:  series[i].Date,
			Value: series[i].Close/prev - 1.0,
		})
	}
	return out
}

// alignByDate intersects two return series on their dates and returns the
// paired values in chronological order.
func alignByDate(a, b []ReturnPoint) (x, y []float64) {
	byDate := make(map[time.Time]float64, len(b))
	for _, p := range b {
		byDate[p.Date] = p.Value
	}
	for _, p := range a {
		if v, ok := byDate[p.Date]; ok {
			x = append(x, p.Value)
			y = append(y, v)
		}
	}
	return x, y
}

// mean returns the arithmetic mean of values.
func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStdDev returns the sample (n-1) standard deviation.
func sampleStdDev(values []float64) float64 {
	m := mean(values)
	variance := 0.0
	for _, v := range values {
		d := v - m
		variance += d * d
	}
	return math.Sqrt(variance / float64(len(values)-1))
}
