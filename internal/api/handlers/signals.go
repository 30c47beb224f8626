package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/quantfolio/advisor/internal/advisor"
	"github.com/quantfolio/advisor/internal/contracts"
	"github.com/quantfolio/advisor/internal/risk"
	"github.com/quantfolio/advisor/pkg/logger"
	"github.com/quantfolio/advisor/pkg/redis"
)

// SignalHandler handles signal-related API endpoints
type SignalHandler struct {
	recommendations contracts.RecommendationRepository
	engine          *advisor.Engine
	cache           *redis.Cache
	logger          *logger.Logger
}

// NewSignalHandler creates a new signal handler
func NewSignalHandler(
	recommendations contracts.RecommendationRepository,
	engine *advisor.Engine,
	cache *redis.Cache,
	log *logger.Logger,
) *SignalHandler {
	return &SignalHandler{
		recommendations: recommendations,
		engine:          engine,
		cache:           cache,
		logger:          log,
	}
}

// GetSignals returns the latest combined signal per symbol, sorted by composite
// GET /api/signals
func (h *SignalHandler) GetSignals(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var signals []*contracts.CombinedSignal
	err := h.cache.GetOrSet(ctx, "signals:latest", &signals, redis.TTLShort, func() (interface{}, error) {
		return h.recommendations.LatestSignals(ctx)
	})
	if err != nil {
		h.logger.WithError(err).Error("Failed to get latest signals")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve signals")
		return
	}

	respondJSON(w, http.StatusOK, signals)
}

// GetSignal returns the latest combined signal for one symbol
// GET /api/signals/{symbol}
func (h *SignalHandler) GetSignal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	symbol := strings.ToUpper(mux.Vars(r)["symbol"])

	var signal contracts.CombinedSignal
	err := h.cache.GetOrSet(ctx, redis.SignalKey(symbol), &signal, redis.TTLShort, func() (interface{}, error) {
		return h.recommendations.LatestSignal(ctx, symbol)
	})
	if err != nil {
		if errors.Is(err, contracts.ErrDataUnavailable) {
			respondError(w, http.StatusNotFound, "No signal found for symbol")
			return
		}
		h.logger.WithError(err).WithField("symbol", symbol).Error("Failed to get signal")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve signal")
		return
	}

	respondJSON(w, http.StatusOK, signal)
}

// correlationResponse wraps a correlation matrix with its as-of date
type correlationResponse struct {
	AsOf    string                  `json:"as_of"`
	Symbols []string                `json:"symbols"`
	Matrix  *risk.CorrelationMatrix `json:"matrix"`
}

// GetCorrelations returns the pairwise return correlation matrix for the universe
// GET /api/correlations
func (h *SignalHandler) GetCorrelations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	key := redis.CorrelationKey(time.Now().UTC().Format("2006-01-02"))
	var cached correlationResponse
	if found, _ := h.cache.Get(ctx, key, &cached); found {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	matrix, asOf, err := h.engine.Correlations(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to compute correlations")
		respondError(w, http.StatusInternalServerError, "Failed to compute correlations")
		return
	}

	resp := correlationResponse{
		AsOf:    asOf.Format("2006-01-02"),
		Symbols: matrix.Symbols,
		Matrix:  matrix,
	}

	if err := h.cache.Set(ctx, key, resp, redis.TTLLong); err != nil {
		h.logger.WithError(err).Warn("Failed to cache correlation matrix")
	}

	respondJSON(w, http.StatusOK, resp)
}
