package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/quantfolio/advisor/internal/contracts"
	"github.com/quantfolio/advisor/pkg/config"
	"github.com/quantfolio/advisor/pkg/httputil"
	"github.com/quantfolio/advisor/pkg/logger"
)

func newFinnhubTestClient(baseURL, apiKey string) *FinnhubClient {
	cfg := &config.Config{
		Finnhub: config.FinnhubConfig{
			APIKey:  apiKey,
			BaseURL: baseURL,
			// High enough that the limiter never blocks a test.
			RateLimitPerMin: 60000,
		},
	}
	httpClient := httputil.New(cfg, logger.NewNop()).DisableRetry()
	return NewFinnhubClient(cfg, logger.NewNop(), httpClient)
}

func TestFetchDailyCandles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("symbol"); got != "SPY" {
			t.Errorf("Expected symbol=SPY, got %s", got)
		}
		if got := r.URL.Query().Get("resolution"); got != "D" {
			t.Errorf("Expected resolution=D, got %s", got)
		}
		if got := r.URL.Query().Get("token"); got != "test-key" {
			t.Errorf("Expected token=test-key, got %s", got)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"s": "ok",
			"t": [1767312000, 1767398400],
			"o": [470.0, 472.5],
			"h": [473.0, 475.0],
			"l": [469.0, 471.0],
			"c": [472.0, 474.5],
			"v": [1000000, 1200000]
		}`))
	}))
	defer server.Close()

	client := newFinnhubTestClient(server.URL, "test-key")

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC)

	series, err := client.FetchDailyCandles(context.Background(), "SPY", from, to)
	if err != nil {
		t.Fatalf("FetchDailyCandles() error = %v", err)
	}

	if len(series) != 2 {
		t.Fatalf("Expected 2 bars, got %d", len(series))
	}

	first := series[0]
	if first.Close != 472.0 {
		t.Errorf("Expected close 472.0, got %f", first.Close)
	}
	if first.AdjClose != first.Close {
		t.Errorf("Expected adjusted close to mirror close, got %f", first.AdjClose)
	}
	if first.Volume != 1000000 {
		t.Errorf("Expected volume 1000000, got %d", first.Volume)
	}
	if first.Date.Location() != time.UTC {
		t.Errorf("Expected UTC date, got %v", first.Date.Location())
	}

	if !series[0].Date.Before(series[1].Date) {
		t.Error("Expected bars in chronological order")
	}
}

func TestFetchDailyCandles_NoData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"s": "no_data"}`))
	}))
	defer server.Close()

	client := newFinnhubTestClient(server.URL, "test-key")

	_, err := client.FetchDailyCandles(context.Background(), "SPY", time.Now().AddDate(0, 0, -5), time.Now())
	if err == nil {
		t.Fatal("Expected error for no_data status, got nil")
	}
	if !errors.Is(err, contracts.ErrDataUnavailable) {
		t.Errorf("Expected ErrDataUnavailable, got %v", err)
	}
}

func TestFetchDailyCandles_MisalignedColumns(t *testing.T) {
	// Every price/volume column must match the timestamp column; a short
	// column is an error, never a partial decode.
	tests := []struct {
		name string
		body string
	}{
		{
			name: "short close",
			body: `{"s": "ok", "t": [1767312000, 1767398400], "c": [472.0],
				"o": [470.0, 472.5], "h": [473.0, 475.0], "l": [469.0, 471.0], "v": [1000000, 1200000]}`,
		},
		{
			name: "short open",
			body: `{"s": "ok", "t": [1767312000, 1767398400], "c": [472.0, 474.5],
				"o": [470.0], "h": [473.0, 475.0], "l": [469.0, 471.0], "v": [1000000, 1200000]}`,
		},
		{
			name: "short high",
			body: `{"s": "ok", "t": [1767312000, 1767398400], "c": [472.0, 474.5],
				"o": [470.0, 472.5], "h": [473.0], "l": [469.0, 471.0], "v": [1000000, 1200000]}`,
		},
		{
			name: "short low",
			body: `{"s": "ok", "t": [1767312000, 1767398400], "c": [472.0, 474.5],
				"o": [470.0, 472.5], "h": [473.0, 475.0], "l": [469.0], "v": [1000000, 1200000]}`,
		},
		{
			name: "short volume",
			body: `{"s": "ok", "t": [1767312000, 1767398400], "c": [472.0, 474.5],
				"o": [470.0, 472.5], "h": [473.0, 475.0], "l": [469.0, 471.0], "v": [1000000]}`,
		},
		{
			name: "missing columns entirely",
			body: `{"s": "ok", "t": [1767312000, 1767398400], "c": [472.0, 474.5]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := newFinnhubTestClient(server.URL, "test-key")

			_, err := client.FetchDailyCandles(context.Background(), "SPY", time.Now().AddDate(0, 0, -5), time.Now())
			if err == nil {
				t.Fatal("Expected error for misaligned columns, got nil")
			}
		})
	}
}

func TestFetchDailyCandles_MissingAPIKey(t *testing.T) {
	client := newFinnhubTestClient("http://unused", "")

	_, err := client.FetchDailyCandles(context.Background(), "SPY", time.Now().AddDate(0, 0, -5), time.Now())
	if err == nil {
		t.Fatal("Expected error for missing API key, got nil")
	}
	if !errors.Is(err, contracts.ErrDataUnavailable) {
		t.Errorf("Expected ErrDataUnavailable, got %v", err)
	}
}

func TestFetchDailyCandles_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := newFinnhubTestClient(server.URL, "test-key")

	_, err := client.FetchDailyCandles(context.Background(), "SPY", time.Now().AddDate(0, 0, -5), time.Now())
	if err == nil {
		t.Fatal("Expected error for non-200 status, got nil")
	}
}
