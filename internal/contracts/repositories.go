package contracts

import (
	"context"
	"time"
)

// PriceRepository provides daily bars for a symbol.
type PriceRepository interface {
	// GetDailyPrices returns up to limit most recent bars for symbol in
	// chronological order.
	GetDailyPrices(ctx context.Context, symbol string, limit int) (PriceSeries, error)

	// SaveDailyPrices upserts daily bars for a symbol.
	SaveDailyPrices(ctx context.Context, symbol string, bars PriceSeries) error
}

// RatesRepository provides macro rate series (10-year treasury yield etc.).
type RatesRepository interface {
	// LatestRiskFree returns the most recent annualized risk-free rate as a
	// decimal fraction (0.045 for 4.5%) and its observation date.
	LatestRiskFree(ctx context.Context) (float64, time.Time, error)

	// SaveRate stores one observation of the named indicator.
	SaveRate(ctx context.Context, indicator string, date time.Time, value float64) error
}

// RecommendationRepository persists combined signals.
type RecommendationRepository interface {
	// SaveSignal upserts one combined signal keyed by (symbol, as_of).
	SaveSignal(ctx context.Context, signal *CombinedSignal) error

	// LatestSignals returns the newest signal per symbol.
	LatestSignals(ctx context.Context) ([]*CombinedSignal, error)

	// LatestSignal returns the newest signal for one symbol.
	LatestSignal(ctx context.Context, symbol string) (*CombinedSignal, error)
}
