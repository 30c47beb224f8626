package collector

import (
	"context"
	"time"

	"github.com/quantfolio/advisor/internal/contracts"
	"github.com/quantfolio/advisor/internal/store"
	"github.com/quantfolio/advisor/pkg/logger"
)

// Collector pulls market data from the external sources and persists it.
// Collection orchestration lives only here.
type Collector struct {
	finnhub  *FinnhubClient
	treasury *TreasuryClient
	prices   contracts.PriceRepository
	rates    contracts.RatesRepository
	logger   *logger.Logger
}

// New creates a new collector.
func New(finnhub *FinnhubClient, treasury *TreasuryClient, prices contracts.PriceRepository, rates contracts.RatesRepository, log *logger.Logger) *Collector {
	return &Collector{
		finnhub:  finnhub,
		treasury: treasury,
		prices:   prices,
		rates:    rates,
		logger:   log.WithField("module", "collector"),
	}
}

// FetchResult is one symbol's collection outcome.
type FetchResult struct {
	Symbol   string
	BarCount int
	Error    error
}

// CollectPrices fetches and upserts roughly `days` calendar days of daily
// bars for every symbol. The Finnhub rate limiter already serializes the
// calls, so symbols run sequentially. One symbol's failure never stops the
// rest.
func (c *Collector) CollectPrices(ctx context.Context, symbols []string, days int) []FetchResult {
	to := time.Now().UTC()
	from := to.AddDate(0, 0, -days)

	c.logger.WithFields(map[string]interface{}{
		"symbols": len(symbols),
		"from":    from.Format("2006-01-02"),
		"to":      to.Format("2006-01-02"),
	}).Info("Starting price collection")

	results := make([]FetchResult, 0, len(symbols))
	for _, symbol := range symbols {
		select {
		case <-ctx.Done():
			results = append(results, FetchResult{Symbol: symbol, Error: ctx.Err()})
			continue
		default:
		}

		series, err := c.finnhub.FetchDailyCandles(ctx, symbol, from, to)
		if err != nil {
			c.logger.WithError(err).WithField("symbol", symbol).Error("Failed to fetch candles")
			results = append(results, FetchResult{Symbol: symbol, Error: err})
			continue
		}

		if err := c.prices.SaveDailyPrices(ctx, symbol, series); err != nil {
			c.logger.WithError(err).WithField("symbol", symbol).Error("Failed to save prices")
			results = append(results, FetchResult{Symbol: symbol, Error: err})
			continue
		}

		results = append(results, FetchResult{Symbol: symbol, BarCount: len(series)})
	}

	success := 0
	for _, r := range results {
		if r.Error == nil {
			success++
		}
	}
	c.logger.WithFields(map[string]interface{}{
		"success": success,
		"failed":  len(results) - success,
	}).Info("Price collection completed")

	return results
}

// CollectRiskFree fetches the latest 10-year treasury yield and stores it
// as a GS10 observation.
func (c *Collector) CollectRiskFree(ctx context.Context) error {
	obs, err := c.treasury.FetchTenYearYield(ctx)
	if err != nil {
		return err
	}

	if err := c.rates.SaveRate(ctx, store.IndicatorGS10, obs.Date, obs.Value); err != nil {
		return err
	}

	c.logger.WithFields(map[string]interface{}{
		"date":  obs.Date.Format("2006-01-02"),
		"yield": obs.Value,
	}).Info("Stored 10-year treasury yield")
	return nil
}
