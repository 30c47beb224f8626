package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/quantfolio/advisor/internal/contracts"
	"github.com/quantfolio/advisor/pkg/config"
	"github.com/quantfolio/advisor/pkg/httputil"
	"github.com/quantfolio/advisor/pkg/logger"
)

// FinnhubClient handles communication with the Finnhub market data API.
// Finnhub calls happen only through this client; the shared rate limiter
// keeps the free tier happy.
type FinnhubClient struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	apiKey     string
}

// NewFinnhubClient creates a new Finnhub client with a per-minute rate
// limit from config.
func NewFinnhubClient(cfg *config.Config, log *logger.Logger, httpClient *httputil.Client) *FinnhubClient {
	perSecond := rate.Limit(float64(cfg.Finnhub.RateLimitPerMin) / 60.0)
	httpClient.WithRateLimiter(rate.NewLimiter(perSecond, 1))

	return &FinnhubClient{
		httpClient: httpClient,
		logger:     log,
		baseURL:    cfg.Finnhub.BaseURL,
		apiKey:     cfg.Finnhub.APIKey,
	}
}

// candleResponse is Finnhub's column-oriented candle payload.
type candleResponse struct {
	Close  []float64 `json:"c"`
	High   []float64 `json:"h"`
	Low    []float64 `json:"l"`
	Open   []float64 `json:"o"`
	Status string    `json:"s"`
	Time   []int64   `json:"t"`
	Volume []float64 `json:"v"`
}

// FetchDailyCandles fetches daily bars for symbol over [from, to] in
// chronological order. Finnhub candles are unadjusted, so adjusted close
// mirrors close.
func (c *FinnhubClient) FetchDailyCandles(ctx context.Context, symbol string, from, to time.Time) (contracts.PriceSeries, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("finnhub API key not configured: %w", contracts.ErrDataUnavailable)
	}

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("resolution", "D")
	params.Set("from", strconv.FormatInt(from.Unix(), 10))
	params.Set("to", strconv.FormatInt(to.Unix(), 10))
	params.Set("token", c.apiKey)

	fullURL := fmt.Sprintf("%s/stock/candle?%s", c.baseURL, params.Encode())

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return nil, fmt.Errorf("finnhub candles for %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("finnhub candles for %s: unexpected status %d", symbol, resp.StatusCode)
	}

	var payload candleResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode finnhub candles for %s: %w", symbol, err)
	}

	if payload.Status != "ok" {
		return nil, fmt.Errorf("%s: finnhub status %q: %w", symbol, payload.Status, contracts.ErrDataUnavailable)
	}
	n := len(payload.Time)
	if len(payload.Close) != n || len(payload.Open) != n || len(payload.High) != n ||
		len(payload.Low) != n || len(payload.Volume) != n {
		return nil, fmt.Errorf("finnhub candles for %s: misaligned columns", symbol)
	}

	series := make(contracts.PriceSeries, 0, len(payload.Time))
	for i := range payload.Time {
		series = append(series, contracts.PriceBar{
			Date:     time.Unix(payload.Time[i], 0).UTC().Truncate(24 * time.Hour),
			Open:     payload.Open[i],
			High:     payload.High[i],
			Low:      payload.Low[i],
			Close:    payload.Close[i],
			AdjClose: payload.Close[i],
			Volume:   int64(payload.Volume[i]),
		})
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"bars":   len(series),
	}).Debug("Fetched daily candles")

	return series, nil
}
