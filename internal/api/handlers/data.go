package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/quantfolio/advisor/internal/collector"
	"github.com/quantfolio/advisor/pkg/logger"
)

// defaultHistoryDays covers the 252-day risk window plus the 200-day SMA warmup.
const defaultHistoryDays = 500

// DataHandler handles data collection API endpoints
type DataHandler struct {
	collector *collector.Collector
	symbols   []string
	logger    *logger.Logger
}

// NewDataHandler creates a new data handler
func NewDataHandler(col *collector.Collector, symbols []string, log *logger.Logger) *DataHandler {
	return &DataHandler{
		collector: col,
		symbols:   symbols,
		logger:    log,
	}
}

// CollectRequest represents a data collection request
type CollectRequest struct {
	Symbols []string `json:"symbols"` // Optional: defaults to the configured universe
	Days    int      `json:"days"`    // Optional: history depth in calendar days
}

// CollectResponse represents a data collection response
type CollectResponse struct {
	Status   string          `json:"status"`
	RiskFree string          `json:"risk_free"`
	Results  []symbolOutcome `json:"results"`
}

type symbolOutcome struct {
	Symbol   string `json:"symbol"`
	BarCount int    `json:"bar_count"`
	Error    string `json:"error,omitempty"`
}

// Collect triggers price and risk-free rate collection
// POST /api/data/collect
func (h *DataHandler) Collect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CollectRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	symbols := req.Symbols
	if len(symbols) == 0 {
		symbols = h.symbols
	}
	for i, s := range symbols {
		symbols[i] = strings.ToUpper(s)
	}

	days := req.Days
	if days <= 0 {
		days = defaultHistoryDays
	}

	results := h.collector.CollectPrices(ctx, symbols, days)

	riskFree := "ok"
	if err := h.collector.CollectRiskFree(ctx); err != nil {
		h.logger.WithError(err).Warn("Risk-free rate collection failed")
		riskFree = "failed"
	}

	status := "ok"
	outcomes := make([]symbolOutcome, 0, len(results))
	for _, res := range results {
		out := symbolOutcome{Symbol: res.Symbol, BarCount: res.BarCount}
		if res.Error != nil {
			out.Error = res.Error.Error()
			status = "partial"
		}
		outcomes = append(outcomes, out)
	}

	respondJSON(w, http.StatusOK, CollectResponse{
		Status:   status,
		RiskFree: riskFree,
		Results:  outcomes,
	})
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
