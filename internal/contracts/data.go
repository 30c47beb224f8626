package contracts

import "time"

// PriceBar represents a single daily OHLCV bar.
// Data layer → indicator/risk calculators.
type PriceBar struct {
	Date     time.Time `json:"date"`
	Open     float64   `json:"open"`
	High     float64   `json:"high"`
	Low      float64   `json:"low"`
	Close    float64   `json:"close"`
	AdjClose float64   `json:"adj_close"`
	Volume   int64     `json:"volume"`
}

// PriceSeries is a chronologically ascending slice of daily bars.
type PriceSeries []PriceBar

// Closes returns the closing prices in chronological order.
func (s PriceSeries) Closes() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Close
	}
	return out
}

// Volumes returns the traded volumes in chronological order.
func (s PriceSeries) Volumes() []int64 {
	out := make([]int64, len(s))
	for i, b := range s {
		out[i] = b.Volume
	}
	return out
}

// Last returns the most recent bar.
func (s PriceSeries) Last() (PriceBar, bool) {
	if len(s) == 0 {
		return PriceBar{}, false
	}
	return s[len(s)-1], true
}

// Tail returns the most recent n bars (all bars if fewer exist).
func (s PriceSeries) Tail(n int) PriceSeries {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

// FundType categorizes a fund for valuation scoring.
type FundType string

const (
	FundGrowth        FundType = "growth"
	FundBlend         FundType = "blend"
	FundSector        FundType = "sector"
	FundBond          FundType = "bond"
	FundDividend      FundType = "dividend"
	FundInternational FundType = "international"
)

// Valid reports whether the fund type is one of the known categories.
func (t FundType) Valid() bool {
	switch t {
	case FundGrowth, FundBlend, FundSector, FundBond, FundDividend, FundInternational:
		return true
	}
	return false
}

// FundamentalBaseline holds the slow-moving fundamentals for a symbol.
// Valuation data arrives from config, not per-bar feeds, so fields that a
// fund may simply not have (PE for bond funds) are pointers.
type FundamentalBaseline struct {
	Symbol        string   `json:"symbol"`
	Type          FundType `json:"type"`
	PE            *float64 `json:"pe,omitempty"`
	DividendYield *float64 `json:"dividend_yield,omitempty"` // percent
	ExpenseRatio  *float64 `json:"expense_ratio,omitempty"`  // percent
}
