package risk

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfolio/advisor/internal/contracts"
)

func series(closes ...float64) contracts.PriceSeries {
	start := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	s := make(contracts.PriceSeries, len(closes))
	for i, c := range closes {
		s[i] = contracts.PriceBar{Date: start.AddDate(0, 0, i), Close: c}
	}
	return s
}

func TestDailyReturns(t *testing.T) {
	returns := DailyReturns(series(100, 110, 99))

	require.Len(t, returns, 2)
	assert.InDelta(t, 0.10, returns[0].Value, 1e-9)
	assert.InDelta(t, -0.10, returns[1].Value, 1e-9)
}

func TestDailyReturns_SkipsNonPositivePrev(t *testing.T) {
	returns := DailyReturns(series(100, 0, 50))

	// The 0 -> 50 transition has no usable previous close.
	require.Len(t, returns, 1)
	assert.InDelta(t, -1.0, returns[0].Value, 1e-9)
}

func TestAnnualVolatility(t *testing.T) {
	// Alternating +1%/-1% daily returns.
	closes := make([]float64, 0, 100)
	price := 100.0
	for i := 0; i < 100; i++ {
		closes = append(closes, price)
		if i%2 == 0 {
			price *= 1.01
		} else {
			price *= 0.99
		}
	}

	vol, ok := AnnualVolatility(DailyReturns(series(closes...))).Float()
	require.True(t, ok)
	assert.InDelta(t, 0.01*math.Sqrt(TradingDays), vol, 0.01)

	assert.False(t, AnnualVolatility(nil).IsPresent())
}

func TestBeta(t *testing.T) {
	bench := series(100, 101, 99, 102, 100, 103, 101, 104)

	t.Run("identical series has beta 1", func(t *testing.T) {
		returns := DailyReturns(bench)
		beta, ok := Beta(returns, returns).Float()
		require.True(t, ok)
		assert.InDelta(t, 1.0, beta, 1e-9)
	})

	t.Run("flat benchmark degenerates", func(t *testing.T) {
		flat := DailyReturns(series(100, 100, 100, 100, 100, 100, 100, 100))
		got := Beta(DailyReturns(bench), flat)
		assert.Equal(t, contracts.StatusDegenerate, got.Status())
	})

	t.Run("disjoint dates are insufficient", func(t *testing.T) {
		other := DailyReturns(series(100, 101, 99))
		for i := range other {
			other[i].Date = other[i].Date.AddDate(1, 0, 0)
		}
		assert.False(t, Beta(DailyReturns(bench), other).IsPresent())
	})
}

func TestSharpe(t *testing.T) {
	returns := DailyReturns(series(100, 101, 99, 102, 100, 103))

	s, ok := Sharpe(returns, 0.04).Float()
	require.True(t, ok)
	assert.False(t, math.IsNaN(s))

	t.Run("zero volatility degenerates", func(t *testing.T) {
		flat := DailyReturns(series(100, 100, 100, 100))
		assert.Equal(t, contracts.StatusDegenerate, Sharpe(flat, 0.04).Status())
	})
}

func TestMaxDrawdown(t *testing.T) {
	t.Run("finds the deepest trough after a peak", func(t *testing.T) {
		dd := MaxDrawdown(series(100, 120, 90, 110, 80, 130))

		v, ok := dd.Value.Float()
		require.True(t, ok)
		// Peak 120, trough 80.
		assert.InDelta(t, 80.0/120.0-1.0, v, 1e-9)
		assert.False(t, dd.TroughDate.Before(dd.PeakDate))
	})

	t.Run("monotone rise has zero drawdown", func(t *testing.T) {
		dd := MaxDrawdown(series(100, 101, 102, 103))

		v, ok := dd.Value.Float()
		require.True(t, ok)
		assert.Equal(t, 0.0, v)
	})

	t.Run("drawdown is never positive", func(t *testing.T) {
		dd := MaxDrawdown(series(100, 105, 95, 115, 90, 120, 85))
		v, ok := dd.Value.Float()
		require.True(t, ok)
		assert.LessOrEqual(t, v, 0.0)
	})

	t.Run("single bar is insufficient", func(t *testing.T) {
		assert.False(t, MaxDrawdown(series(100)).Value.IsPresent())
	})
}

func TestVaR95(t *testing.T) {
	returns := DailyReturns(series(100, 101, 99, 102, 100, 103))

	values := make([]float64, len(returns))
	for i, p := range returns {
		values[i] = p.Value
	}
	want := mean(values) - 1.645*sampleStdDev(values)

	got, ok := VaR95(returns).Float()
	require.True(t, ok)
	assert.InDelta(t, want, got, 1e-9)
}

func TestCalmar(t *testing.T) {
	returns := DailyReturns(series(100, 110, 90, 105))

	t.Run("zero drawdown degenerates", func(t *testing.T) {
		got := Calmar(returns, contracts.Present(0))
		assert.Equal(t, contracts.StatusDegenerate, got.Status())
	})

	t.Run("absent drawdown passes through", func(t *testing.T) {
		got := Calmar(returns, contracts.Insufficient())
		assert.Equal(t, contracts.StatusInsufficient, got.Status())
	})

	t.Run("computes return over drawdown magnitude", func(t *testing.T) {
		got, ok := Calmar(returns, contracts.Present(-0.2)).Float()
		require.True(t, ok)
		assert.False(t, math.IsNaN(got))
	})
}

func TestCorrelation(t *testing.T) {
	a := DailyReturns(series(100, 102, 99, 104, 101, 105))

	t.Run("self correlation is 1", func(t *testing.T) {
		corr, ok := Correlation(a, a).Float()
		require.True(t, ok)
		assert.InDelta(t, 1.0, corr, 1e-9)
	})

	t.Run("inverse series is -1", func(t *testing.T) {
		b := make([]ReturnPoint, len(a))
		for i, p := range a {
			b[i] = ReturnPoint{Date: p.Date, Value: -p.Value}
		}
		corr, ok := Correlation(a, b).Float()
		require.True(t, ok)
		assert.InDelta(t, -1.0, corr, 1e-9)
	})

	t.Run("zero variance degenerates", func(t *testing.T) {
		flat := DailyReturns(series(100, 100, 100, 100, 100, 100))
		assert.Equal(t, contracts.StatusDegenerate, Correlation(a, flat).Status())
	})
}
