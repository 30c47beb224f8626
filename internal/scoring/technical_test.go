package scoring

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfolio/advisor/internal/contracts"
	"github.com/quantfolio/advisor/internal/indicators"
	"github.com/quantfolio/advisor/pkg/logger"
)

// fullSnapshot builds a snapshot with every indicator present and neutral.
// Tests override individual fields.
func fullSnapshot() *indicators.Snapshot {
	return &indicators.Snapshot{
		Symbol:    "TEST",
		AsOf:      time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC),
		Open:      100,
		Close:     100,
		PrevClose: contracts.Present(100),
		SMA: map[int]contracts.Value{
			10: contracts.Present(100), 20: contracts.Present(100),
			50: contracts.Present(100), 200: contracts.Present(100),
		},
		EMA: map[int]contracts.Value{
			10: contracts.Present(100), 20: contracts.Present(100),
			50: contracts.Present(100), 200: contracts.Present(100),
		},
		MACD: indicators.MACDResult{
			Line:      contracts.Present(0),
			Signal:    contracts.Present(0),
			Histogram: contracts.Present(0),
		},
		RSI: contracts.Present(50),
		Bollinger: indicators.BollingerResult{
			Upper:    contracts.Present(102),
			Middle:   contracts.Present(100),
			Lower:    contracts.Present(98),
			PercentB: contracts.Present(0.5),
			Width:    contracts.Present(4),
		},
		VolumeSMA:   contracts.Present(1000),
		VolumeRatio: contracts.Present(1.0),
		OBV:         contracts.Present(0),
		OBVSMA:      contracts.Present(0),
	}
}

func findComponent(t *testing.T, d *contracts.DomainScore, name string) contracts.ScoreComponent {
	t.Helper()
	for _, c := range d.Components {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("component %s not found", name)
	return contracts.ScoreComponent{}
}

func TestTechnicalScorer_MovingAverages(t *testing.T) {
	scorer := NewTechnicalScorer(logger.NewNop(), testConfig())

	tests := []struct {
		name   string
		close  float64
		sma50  float64
		sma200 float64
		want   int
	}{
		{name: "golden cross and price above", close: 110, sma50: 105, sma200: 100, want: 2},
		{name: "golden cross but price below", close: 100, sma50: 105, sma200: 100, want: 0},
		{name: "death cross and price below", close: 90, sma50: 95, sma200: 100, want: -2},
		{name: "death cross but price above", close: 100, sma50: 95, sma200: 100, want: 0},
		{name: "everything equal", close: 100, sma50: 100, sma200: 100, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := fullSnapshot()
			snap.Close = tt.close
			snap.SMA[50] = contracts.Present(tt.sma50)
			snap.SMA[200] = contracts.Present(tt.sma200)

			c := findComponent(t, scorer.Score(snap), "moving_averages")
			require.True(t, c.Valid)
			assert.Equal(t, tt.want, c.Score)
		})
	}

	t.Run("missing SMA200 invalidates", func(t *testing.T) {
		snap := fullSnapshot()
		snap.SMA[200] = contracts.Insufficient()

		c := findComponent(t, scorer.Score(snap), "moving_averages")
		assert.False(t, c.Valid)
		assert.Equal(t, 0, c.Score)
	})
}

func TestTechnicalScorer_MACD(t *testing.T) {
	scorer := NewTechnicalScorer(logger.NewNop(), testConfig())

	tests := []struct {
		name   string
		line   float64
		signal float64
		want   int
	}{
		{name: "bullish above zero", line: 1.5, signal: 1.0, want: 2},
		{name: "bullish below zero", line: -0.5, signal: -1.0, want: 1},
		{name: "bearish below zero", line: -1.5, signal: -1.0, want: -2},
		{name: "bearish above zero", line: 0.5, signal: 1.0, want: -1},
		{name: "flat", line: 0, signal: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := fullSnapshot()
			snap.MACD.Line = contracts.Present(tt.line)
			snap.MACD.Signal = contracts.Present(tt.signal)

			c := findComponent(t, scorer.Score(snap), "macd")
			require.True(t, c.Valid)
			assert.Equal(t, tt.want, c.Score)
		})
	}
}

func TestTechnicalScorer_RSI(t *testing.T) {
	scorer := NewTechnicalScorer(logger.NewNop(), testConfig())

	tests := []struct {
		rsi  float64
		want int
	}{
		{10, 2}, {29.9, 2},
		{30, 1}, {39.9, 1},
		{40, 0}, {50, 0}, {60, 0},
		{60.1, -1}, {70, -1},
		{70.1, -2}, {95, -2},
	}

	for _, tt := range tests {
		snap := fullSnapshot()
		snap.RSI = contracts.Present(tt.rsi)

		c := findComponent(t, scorer.Score(snap), "rsi")
		require.True(t, c.Valid)
		assert.Equal(t, tt.want, c.Score, "rsi %v", tt.rsi)
	}
}

func TestTechnicalScorer_Bollinger(t *testing.T) {
	scorer := NewTechnicalScorer(logger.NewNop(), testConfig())

	tests := []struct {
		pctB float64
		want int
	}{
		{-0.1, 2},
		{0, 1}, {0.29, 1},
		{0.3, 0}, {0.5, 0}, {0.7, 0},
		{0.71, -1}, {1.0, -1},
		{1.01, -2},
	}

	for _, tt := range tests {
		snap := fullSnapshot()
		snap.Bollinger.PercentB = contracts.Present(tt.pctB)

		c := findComponent(t, scorer.Score(snap), "bollinger")
		require.True(t, c.Valid)
		assert.Equal(t, tt.want, c.Score, "pctB %v", tt.pctB)
	}

	t.Run("degenerate band invalidates", func(t *testing.T) {
		snap := fullSnapshot()
		snap.Bollinger.PercentB = contracts.Degenerate()

		c := findComponent(t, scorer.Score(snap), "bollinger")
		assert.False(t, c.Valid)
	})
}

func TestTechnicalScorer_Volume(t *testing.T) {
	scorer := NewTechnicalScorer(logger.NewNop(), testConfig())

	tests := []struct {
		name   string
		obv    float64
		obvSMA float64
		ratio  float64
		open   float64
		close  float64
		want   int
	}{
		{name: "obv rising heavy up day", obv: 100, obvSMA: 50, ratio: 2.0, open: 100, close: 105, want: 2},
		{name: "obv rising normal volume", obv: 100, obvSMA: 50, ratio: 1.0, open: 100, close: 105, want: 1},
		{name: "obv falling heavy down day", obv: 10, obvSMA: 50, ratio: 1.8, open: 100, close: 95, want: -2},
		{name: "obv falling heavy up day nets out", obv: 10, obvSMA: 50, ratio: 1.8, open: 100, close: 105, want: 0},
		{name: "flat doji on heavy volume", obv: 50, obvSMA: 50, ratio: 2.0, open: 100, close: 100, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := fullSnapshot()
			snap.OBV = contracts.Present(tt.obv)
			snap.OBVSMA = contracts.Present(tt.obvSMA)
			snap.VolumeRatio = contracts.Present(tt.ratio)
			snap.Open = tt.open
			snap.Close = tt.close

			c := findComponent(t, scorer.Score(snap), "volume")
			require.True(t, c.Valid)
			assert.Equal(t, tt.want, c.Score)
		})
	}
}

func TestTechnicalScorer_TotalAndLabel(t *testing.T) {
	scorer := NewTechnicalScorer(logger.NewNop(), testConfig())

	// Strong uptrend: every component should contribute, total >= 6.
	snap := fullSnapshot()
	snap.Close = 120
	snap.Open = 115
	snap.SMA[50] = contracts.Present(110)
	snap.SMA[200] = contracts.Present(100)
	snap.MACD.Line = contracts.Present(2.0)
	snap.MACD.Signal = contracts.Present(1.0)
	snap.RSI = contracts.Present(35)
	snap.Bollinger.PercentB = contracts.Present(0.2)
	snap.OBV = contracts.Present(500)
	snap.OBVSMA = contracts.Present(100)
	snap.VolumeRatio = contracts.Present(2.0)

	d := scorer.Score(snap)

	assert.Equal(t, d.Sum(), d.Total)
	assert.GreaterOrEqual(t, d.Total, 6)
	assert.Equal(t, SignalStrongBuy, d.Label)
	assert.True(t, d.Valid)
	assert.Equal(t, -10, d.Min)
	assert.Equal(t, 10, d.Max)
}

func TestTechnicalScorer_AllAbsent(t *testing.T) {
	scorer := NewTechnicalScorer(logger.NewNop(), testConfig())

	snap := &indicators.Snapshot{
		Symbol:      "EMPTY",
		SMA:         map[int]contracts.Value{},
		EMA:         map[int]contracts.Value{},
		RSI:         contracts.Insufficient(),
		VolumeRatio: contracts.Insufficient(),
		OBV:         contracts.Insufficient(),
		OBVSMA:      contracts.Insufficient(),
	}

	d := scorer.Score(snap)

	assert.False(t, d.Valid)
	assert.Equal(t, 0, d.Total)
	assert.Equal(t, 0, d.ValidCount())
}

func TestTechnicalScorer_ScoreRange(t *testing.T) {
	scorer := NewTechnicalScorer(logger.NewNop(), testConfig())
	rng := rand.New(rand.NewSource(1))

	maybe := func(f float64) contracts.Value {
		if rng.Intn(10) == 0 {
			return contracts.Insufficient()
		}
		return contracts.Present(f)
	}

	for i := 0; i < 10_000; i++ {
		snap := fullSnapshot()
		snap.Close = 50 + rng.Float64()*100
		snap.Open = 50 + rng.Float64()*100
		snap.SMA[50] = maybe(50 + rng.Float64()*100)
		snap.SMA[200] = maybe(50 + rng.Float64()*100)
		snap.MACD.Line = maybe(rng.NormFloat64() * 3)
		snap.MACD.Signal = maybe(rng.NormFloat64() * 3)
		snap.RSI = maybe(rng.Float64() * 100)
		snap.Bollinger.PercentB = maybe(rng.Float64()*2 - 0.5)
		snap.OBV = maybe(rng.NormFloat64() * 1000)
		snap.OBVSMA = maybe(rng.NormFloat64() * 1000)
		snap.VolumeRatio = maybe(rng.Float64() * 4)

		d := scorer.Score(snap)

		require.GreaterOrEqual(t, d.Total, d.Min)
		require.LessOrEqual(t, d.Total, d.Max)
		require.Equal(t, d.Sum(), d.Total)
		for _, c := range d.Components {
			require.GreaterOrEqual(t, c.Score, c.Min, c.Name)
			require.LessOrEqual(t, c.Score, c.Max, c.Name)
			if !c.Valid {
				require.Zero(t, c.Score, "invalid %s must not carry a score", c.Name)
			}
		}
	}
}
