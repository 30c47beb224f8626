package risk

import (
	"math"
	"time"

	"github.com/quantfolio/advisor/internal/contracts"
)

const (
	// TradingDays is the annualization factor for daily observations.
	TradingDays = 252

	// zVaR95 is the one-sided 95% normal quantile used by parametric VaR.
	zVaR95 = 1.645
)

// AnnualVolatility is the sample standard deviation of daily returns
// scaled by sqrt(252), as a decimal fraction.
func AnnualVolatility(returns []ReturnPoint) contracts.Value {
	if len(returns) < 2 {
		return contracts.Insufficient()
	}
	values := make([]float64, len(returns))
	for i, p := range returns {
		values[i] = p.Value
	}
	return contracts.Present(sampleStdDev(values) * math.Sqrt(TradingDays))
}

// Beta is cov(asset, benchmark) / var(benchmark) over the date-aligned
// overlap of the two return series. Degenerate when the benchmark shows
// no variance.
func Beta(asset, benchmark []ReturnPoint) contracts.Value {
	x, y := alignByDate(asset, benchmark)
	if len(x) < 2 {
		return contracts.Insufficient()
	}

	mx, my := mean(x), mean(y)
	var cov, varY float64
	for i := range x {
		cov += (x[i] - mx) * (y[i] - my)
		varY += (y[i] - my) * (y[i] - my)
	}
	if varY == 0 {
		return contracts.Degenerate()
	}
	return contracts.Present(cov / varY)
}

// Sharpe is (annualized mean return - riskFree) / annualized volatility.
// riskFree is an annual decimal fraction. Degenerate when volatility is zero.
func Sharpe(returns []ReturnPoint, riskFree float64) contracts.Value {
	if len(returns) < 2 {
		return contracts.Insufficient()
	}
	values := make([]float64, len(returns))
	for i, p := range returns {
		values[i] = p.Value
	}
	vol := sampleStdDev(values) * math.Sqrt(TradingDays)
	if vol == 0 {
		return contracts.Degenerate()
	}
	annReturn := mean(values) * TradingDays
	return contracts.Present((annReturn - riskFree) / vol)
}

// Drawdown is the deepest peak-to-trough loss over a price series.
type Drawdown struct {
	// Value is the drawdown as a non-positive decimal fraction.
	Value contracts.Value `json:"value"`

	PeakDate   time.Time `json:"peak_date"`
	TroughDate time.Time `json:"trough_date"`
}

// MaxDrawdown walks the series tracking the running peak; the trough never
// predates its peak.
func MaxDrawdown(series contracts.PriceSeries) Drawdown {
	if len(series) < 2 {
		return Drawdown{Value: contracts.Insufficient()}
	}

	peak := series[0].Close
	peakDate := series[0].Date

	worst := 0.0
	var worstPeak, worstTrough time.Time

	for _, bar := range series[1:] {
		if bar.Close > peak {
			peak = bar.Close
			peakDate = bar.Date
			continue
		}
		if peak <= 0 {
			continue
		}
		dd := bar.Close/peak - 1.0
		if dd < worst {
			worst = dd
			worstPeak = peakDate
			worstTrough = bar.Date
		}
	}

	if worst == 0 {
		// Monotonically rising (or flat) series: no drawdown occurred.
		return Drawdown{Value: contracts.Present(0)}
	}
	return Drawdown{
		Value:      contracts.Present(worst),
		PeakDate:   worstPeak,
		TroughDate: worstTrough,
	}
}

// VaR95 is the parametric one-day 95% value at risk:
// mean(returns) - 1.645 * stddev(returns), as a decimal fraction.
// A more negative value means a worse expected bad day.
func VaR95(returns []ReturnPoint) contracts.Value {
	if len(returns) < 2 {
		return contracts.Insufficient()
	}
	values := make([]float64, len(returns))
	for i, p := range returns {
		values[i] = p.Value
	}
	return contracts.Present(mean(values) - zVaR95*sampleStdDev(values))
}

// Calmar is the annualized mean return divided by the magnitude of the max
// drawdown. Degenerate when no drawdown occurred.
func Calmar(returns []ReturnPoint, maxDrawdown contracts.Value) contracts.Value {
	dd, ok := maxDrawdown.Float()
	if !ok {
		return maxDrawdown
	}
	if len(returns) < 2 {
		return contracts.Insufficient()
	}
	if dd == 0 {
		return contracts.Degenerate()
	}
	values := make([]float64, len(returns))
	for i, p := range returns {
		values[i] = p.Value
	}
	return contracts.Present(mean(values) * TradingDays / math.Abs(dd))
}

// Correlation is the Pearson correlation of the date-aligned overlap of two
// return series. Degenerate when either series has zero variance.
func Correlation(a, b []ReturnPoint) contracts.Value {
	x, y := alignByDate(a, b)
	if len(x) < 2 {
		return contracts.Insufficient()
	}

	mx, my := mean(x), mean(y)
	var cov, varX, varY float64
	for i := range x {
		dx, dy := x[i]-mx, y[i]-my
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return contracts.Degenerate()
	}
	return contracts.Present(cov / math.Sqrt(varX*varY))
}
