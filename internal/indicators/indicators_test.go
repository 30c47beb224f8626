package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfolio/advisor/internal/contracts"
)

// linear returns n values starting at start, stepping by step.
func linear(start, step float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}

func flat(value float64, n int) []float64 {
	return linear(value, 0, n)
}

func TestSMA(t *testing.T) {
	got, ok := SMA([]float64{1, 2, 3, 4, 5}, 5).Float()
	require.True(t, ok)
	assert.InDelta(t, 3.0, got, 1e-9)

	// Only the trailing window counts
	got, ok = SMA([]float64{100, 1, 2, 3}, 3).Float()
	require.True(t, ok)
	assert.InDelta(t, 2.0, got, 1e-9)

	// Too little history
	assert.False(t, SMA([]float64{1, 2}, 3).IsPresent())
	assert.Equal(t, contracts.StatusInsufficient, SMA(nil, 3).Status())
}

func TestEMA_TracksTrend(t *testing.T) {
	values := linear(100, 1, 60)

	ema, ok := EMA(values, 20).Float()
	require.True(t, ok)
	sma, ok := SMA(values, 20).Float()
	require.True(t, ok)

	last := values[len(values)-1]

	// On a rising series the EMA sits between the SMA and the last price.
	assert.Greater(t, ema, sma)
	assert.Less(t, ema, last)
}

func TestEMA_Insufficient(t *testing.T) {
	assert.False(t, EMA(linear(100, 1, 19), 20).IsPresent())
}

func TestRSI(t *testing.T) {
	t.Run("monotone rise pins to 100", func(t *testing.T) {
		rsi, ok := RSI(linear(100, 1, 20), RSIPeriod).Float()
		require.True(t, ok)
		assert.Equal(t, 100.0, rsi)
	})

	t.Run("flat series has no losses", func(t *testing.T) {
		rsi, ok := RSI(flat(100, 20), RSIPeriod).Float()
		require.True(t, ok)
		assert.Equal(t, 100.0, rsi)
	})

	t.Run("monotone fall approaches 0", func(t *testing.T) {
		rsi, ok := RSI(linear(100, -1, 20), RSIPeriod).Float()
		require.True(t, ok)
		assert.InDelta(t, 0.0, rsi, 1e-9)
	})

	t.Run("mixed series stays in range", func(t *testing.T) {
		values := make([]float64, 60)
		price := 100.0
		for i := range values {
			if i%2 == 0 {
				price += 1.5
			} else {
				price -= 1.0
			}
			values[i] = price
		}
		rsi, ok := RSI(values, RSIPeriod).Float()
		require.True(t, ok)
		assert.Greater(t, rsi, 0.0)
		assert.Less(t, rsi, 100.0)
	})

	t.Run("needs period+1 values", func(t *testing.T) {
		assert.False(t, RSI(linear(100, 1, RSIPeriod), RSIPeriod).IsPresent())
	})
}

func TestMACD(t *testing.T) {
	t.Run("flat series is all zero", func(t *testing.T) {
		result := MACD(flat(50, 60))

		line, ok := result.Line.Float()
		require.True(t, ok)
		assert.InDelta(t, 0.0, line, 1e-9)

		hist, ok := result.Histogram.Float()
		require.True(t, ok)
		assert.InDelta(t, 0.0, hist, 1e-9)
	})

	t.Run("rising series has positive line", func(t *testing.T) {
		result := MACD(linear(100, 1, 60))

		line, ok := result.Line.Float()
		require.True(t, ok)
		assert.Greater(t, line, 0.0)
	})

	t.Run("26 bars yields line but no signal", func(t *testing.T) {
		result := MACD(linear(100, 1, 26))

		assert.True(t, result.Line.IsPresent())
		assert.False(t, result.Signal.IsPresent())
		assert.False(t, result.Histogram.IsPresent())
	})

	t.Run("34 bars yields the full result", func(t *testing.T) {
		result := MACD(linear(100, 1, 34))

		assert.True(t, result.Line.IsPresent())
		assert.True(t, result.Signal.IsPresent())
		assert.True(t, result.Histogram.IsPresent())
	})

	t.Run("too few bars", func(t *testing.T) {
		result := MACD(linear(100, 1, 25))
		assert.False(t, result.Line.IsPresent())
	})
}

func TestBollinger(t *testing.T) {
	t.Run("percent_b locates the close inside the band", func(t *testing.T) {
		values := []float64{10, 12, 10, 12, 10, 12, 10, 12, 10, 12, 10, 12, 10, 12, 10, 12, 10, 12, 10, 12}
		result := Bollinger(values, BollingerPeriod, BollingerK)

		upper, ok := result.Upper.Float()
		require.True(t, ok)
		lower, ok := result.Lower.Float()
		require.True(t, ok)
		pb, ok := result.PercentB.Float()
		require.True(t, ok)

		want := (values[len(values)-1] - lower) / (upper - lower)
		assert.InDelta(t, want, pb, 1e-9)

		// The closing value 12 sits above the midpoint but inside the band.
		assert.Greater(t, pb, 0.5)
		assert.Less(t, pb, 1.0)
	})

	t.Run("close on the upper band reads exactly 1.0", func(t *testing.T) {
		// Window {0,0,0,8}: mean 2, sample stddev exactly 4, so at
		// k=1.5 the upper band is exactly the closing value.
		result := Bollinger([]float64{0, 0, 0, 8}, 4, 1.5)

		pb, ok := result.PercentB.Float()
		require.True(t, ok)
		assert.Equal(t, 1.0, pb)
	})

	t.Run("close on the lower band reads exactly 0.0", func(t *testing.T) {
		result := Bollinger([]float64{8, 8, 8, 0}, 4, 1.5)

		pb, ok := result.PercentB.Float()
		require.True(t, ok)
		assert.Equal(t, 0.0, pb)
	})

	t.Run("flat window degenerates percent_b", func(t *testing.T) {
		result := Bollinger(flat(100, 20), BollingerPeriod, BollingerK)

		assert.Equal(t, contracts.StatusDegenerate, result.PercentB.Status())

		// Width of a zero-width band is exactly zero, not absent.
		width, ok := result.Width.Float()
		require.True(t, ok)
		assert.Equal(t, 0.0, width)
	})

	t.Run("width is a percentage of the middle band", func(t *testing.T) {
		values := linear(100, 1, 20)
		result := Bollinger(values, BollingerPeriod, BollingerK)

		upper, _ := result.Upper.Float()
		middle, _ := result.Middle.Float()
		lower, _ := result.Lower.Float()
		width, ok := result.Width.Float()
		require.True(t, ok)

		assert.InDelta(t, (upper-lower)/middle*100, width, 1e-9)
	})

	t.Run("too few bars", func(t *testing.T) {
		result := Bollinger(linear(100, 1, 19), BollingerPeriod, BollingerK)
		assert.False(t, result.Middle.IsPresent())
	})
}

func TestOBV(t *testing.T) {
	closes := []float64{100, 101, 102, 101, 103}
	volumes := []int64{1000, 500, 300, 200, 400}

	obv, ok := OBV(closes, volumes).Float()
	require.True(t, ok)

	// 0 +500 +300 -200 +400
	assert.Equal(t, 1000.0, obv)

	t.Run("rising series never decreases", func(t *testing.T) {
		closes := linear(100, 1, 30)
		volumes := make([]int64, 30)
		for i := range volumes {
			volumes[i] = 1000
		}

		prev := 0.0
		for i := 2; i <= len(closes); i++ {
			v, ok := OBV(closes[:i], volumes[:i]).Float()
			require.True(t, ok)
			assert.GreaterOrEqual(t, v, prev)
			prev = v
		}
	})

	t.Run("single bar is insufficient", func(t *testing.T) {
		assert.False(t, OBV([]float64{100}, []int64{1000}).IsPresent())
	})

	t.Run("mismatched lengths are insufficient", func(t *testing.T) {
		assert.False(t, OBV([]float64{100, 101}, []int64{1000}).IsPresent())
	})
}

func TestVolumeRatio(t *testing.T) {
	volumes := make([]int64, 20)
	for i := range volumes {
		volumes[i] = 1000
	}
	volumes[19] = 2000

	ratio, ok := VolumeRatio(volumes, VolumePeriod).Float()
	require.True(t, ok)
	assert.InDelta(t, 2000.0/1050.0, ratio, 1e-9)

	t.Run("zero average volume degenerates", func(t *testing.T) {
		zeros := make([]int64, 20)
		assert.Equal(t, contracts.StatusDegenerate, VolumeRatio(zeros, VolumePeriod).Status())
	})

	t.Run("too few bars", func(t *testing.T) {
		assert.False(t, VolumeRatio(volumes[:10], VolumePeriod).IsPresent())
	})
}
