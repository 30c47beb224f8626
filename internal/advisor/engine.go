package advisor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/quantfolio/advisor/internal/contracts"
	"github.com/quantfolio/advisor/internal/indicators"
	"github.com/quantfolio/advisor/internal/risk"
	"github.com/quantfolio/advisor/internal/scoring"
	"github.com/quantfolio/advisor/internal/strategyconfig"
	"github.com/quantfolio/advisor/pkg/config"
	"github.com/quantfolio/advisor/pkg/logger"
)

// Status describes how far one symbol's pipeline got.
type Status string

const (
	// StatusSuccess means all three domains scored and aggregated.
	StatusSuccess Status = "success"
	// StatusPartial means some domains scored but aggregation failed.
	StatusPartial Status = "partial"
	// StatusFailed means no usable output was produced.
	StatusFailed Status = "failed"
)

// Result is one symbol's outcome from a batch run.
type Result struct {
	Symbol string
	Status Status
	Err    error

	Snapshot *indicators.Snapshot
	Metrics  *risk.Metrics

	Technical   *contracts.DomainScore
	Fundamental *contracts.DomainScore
	Risk        *contracts.DomainScore

	Signal *contracts.CombinedSignal
}

// runContext is the immutable shared input for one batch run. Workers read
// it concurrently without locks.
type runContext struct {
	benchmarkSym string
	benchmark    contracts.PriceSeries
	riskFree     float64
}

// Engine drives the per-symbol pipeline: prices → indicators/risk metrics →
// three scorers → aggregator. Symbols are independent, so batch runs fan
// out over a worker pool.
type Engine struct {
	logger   *logger.Logger
	strategy *strategyconfig.Config
	workers  int
	rfFall   float64

	prices contracts.PriceRepository
	rates  contracts.RatesRepository

	indicators  *indicators.Calculator
	riskCalc    *risk.Calculator
	technical   *scoring.TechnicalScorer
	fundamental *scoring.FundamentalScorer
	riskScorer  *scoring.RiskScorer
	aggregator  *Aggregator
}

// NewEngine wires the full pipeline. rates may be nil; the risk-free
// fallback from app config is used instead.
func NewEngine(log *logger.Logger, appCfg *config.Config, strategy *strategyconfig.Config, prices contracts.PriceRepository, rates contracts.RatesRepository) *Engine {
	return &Engine{
		logger:   log.WithField("module", "advisor"),
		strategy: strategy,
		workers:  appCfg.Engine.Workers,
		rfFall:   appCfg.Engine.RiskFreeFallback,

		prices: prices,
		rates:  rates,

		indicators:  indicators.NewCalculator(log),
		riskCalc:    risk.NewCalculator(log, strategy.Risk.WindowDays),
		technical:   scoring.NewTechnicalScorer(log, strategy),
		fundamental: scoring.NewFundamentalScorer(log, strategy),
		riskScorer:  scoring.NewRiskScorer(log, strategy),
		aggregator:  NewAggregator(log, strategy),
	}
}

// RiskFreeRate returns the latest stored risk-free rate, or the configured
// fallback when none is available.
func (e *Engine) RiskFreeRate(ctx context.Context) float64 {
	if e.rates == nil {
		return e.rfFall
	}
	rate, asOf, err := e.rates.LatestRiskFree(ctx)
	if err != nil {
		e.logger.WithError(err).Warn("No stored risk-free rate, using fallback")
		return e.rfFall
	}
	e.logger.WithFields(map[string]interface{}{
		"rate":  rate,
		"as_of": asOf.Format("2006-01-02"),
	}).Debug("Using stored risk-free rate")
	return rate
}

// ScoreFundamental scores one baseline against the given risk-free rate.
// Exposed for the CLI's baseline table; batch runs go through Analyze.
func (e *Engine) ScoreFundamental(baseline contracts.FundamentalBaseline, riskFree float64) *contracts.DomainScore {
	return e.fundamental.Score(baseline, riskFree)
}

// newRunContext loads the shared benchmark series and risk-free rate once
// per batch.
func (e *Engine) newRunContext(ctx context.Context) (*runContext, error) {
	benchSym := e.strategy.Meta.Benchmark
	bench, err := e.prices.GetDailyPrices(ctx, benchSym, e.strategy.Risk.WindowDays)
	if err != nil {
		return nil, fmt.Errorf("load benchmark %s: %w", benchSym, err)
	}
	return &runContext{
		benchmarkSym: benchSym,
		benchmark:    bench,
		riskFree:     e.RiskFreeRate(ctx),
	}, nil
}

// Analyze runs the full pipeline for a single symbol.
func (e *Engine) Analyze(ctx context.Context, symbol string) (*Result, error) {
	rc, err := e.newRunContext(ctx)
	if err != nil {
		return nil, err
	}
	res := e.analyzeSymbol(ctx, symbol, rc)
	return &res, nil
}

// AnalyzeAll runs the pipeline for every configured symbol in parallel.
// One symbol's failure never aborts the batch; each result reports its own
// status. Results come back in the configured symbol order.
func (e *Engine) AnalyzeAll(ctx context.Context) ([]Result, error) {
	return e.AnalyzeBatch(ctx, e.strategy.Symbols())
}

// AnalyzeBatch runs the pipeline for the given symbols in parallel.
func (e *Engine) AnalyzeBatch(ctx context.Context, symbols []string) ([]Result, error) {
	rc, err := e.newRunContext(ctx)
	if err != nil {
		return nil, err
	}

	e.logger.WithFields(map[string]interface{}{
		"symbols":   len(symbols),
		"workers":   e.workers,
		"benchmark": rc.benchmarkSym,
		"risk_free": rc.riskFree,
	}).Info("Starting batch analysis")

	symbolCh := make(chan string, len(symbols))
	resultCh := make(chan Result, len(symbols))

	var wg sync.WaitGroup
	for i := 0; i < e.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for symbol := range symbolCh {
				select {
				case <-ctx.Done():
					resultCh <- Result{Symbol: symbol, Status: StatusFailed, Err: ctx.Err()}
					continue
				default:
				}
				resultCh <- e.analyzeSymbol(ctx, symbol, rc)
			}
		}()
	}

	for _, s := range symbols {
		symbolCh <- s
	}
	close(symbolCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	bySymbol := make(map[string]Result, len(symbols))
	var success, partial, failed int
	for r := range resultCh {
		bySymbol[r.Symbol] = r
		switch r.Status {
		case StatusSuccess:
			success++
		case StatusPartial:
			partial++
		default:
			failed++
		}
	}

	results := make([]Result, 0, len(symbols))
	for _, s := range symbols {
		results = append(results, bySymbol[s])
	}

	e.logger.WithFields(map[string]interface{}{
		"success": success,
		"partial": partial,
		"failed":  failed,
	}).Info("Batch analysis completed")

	return results, nil
}

// analyzeSymbol runs one symbol's pipeline against the shared run context.
func (e *Engine) analyzeSymbol(ctx context.Context, symbol string, rc *runContext) Result {
	res := Result{Symbol: symbol, Status: StatusFailed}

	series, err := e.prices.GetDailyPrices(ctx, symbol, e.strategy.Risk.WindowDays)
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", symbol, err)
		e.logger.WithError(err).WithField("symbol", symbol).Error("Price load failed")
		return res
	}
	if len(series) == 0 {
		res.Err = fmt.Errorf("%s: %w", symbol, contracts.ErrDataUnavailable)
		return res
	}

	snap, err := e.indicators.Compute(symbol, series)
	if err != nil {
		res.Err = err
		return res
	}
	res.Snapshot = snap
	res.Technical = e.technical.Score(snap)

	metrics, err := e.riskCalc.Compute(symbol, series, rc.benchmark, rc.riskFree)
	if err != nil {
		res.Err = err
		return res
	}
	res.Metrics = metrics
	res.Risk = e.riskScorer.Score(metrics)

	if baseline, ok := e.strategy.Baseline(symbol); ok {
		res.Fundamental = e.fundamental.Score(baseline, rc.riskFree)
	} else {
		e.logger.WithField("symbol", symbol).Warn("No fundamental baseline configured")
	}

	signal, err := e.aggregator.Combine(symbol, snap.AsOf, res.Technical, res.Fundamental, res.Risk)
	if err != nil {
		var aggErr *contracts.AggregationInputError
		if errors.As(err, &aggErr) {
			res.Status = StatusPartial
			res.Err = err
			return res
		}
		res.Err = err
		return res
	}

	res.Signal = signal
	res.Status = StatusSuccess
	return res
}

// Correlations fetches every configured symbol's series and computes the
// pairwise return correlation matrix over the strategy window.
func (e *Engine) Correlations(ctx context.Context) (*risk.CorrelationMatrix, time.Time, error) {
	seriesBySymbol := make(map[string]contracts.PriceSeries)
	var asOf time.Time

	for _, symbol := range e.strategy.Symbols() {
		series, err := e.prices.GetDailyPrices(ctx, symbol, e.strategy.Risk.WindowDays)
		if err != nil || len(series) == 0 {
			e.logger.WithField("symbol", symbol).Warn("Excluding symbol from correlation matrix")
			continue
		}
		seriesBySymbol[symbol] = series
		if last, ok := series.Last(); ok && last.Date.After(asOf) {
			asOf = last.Date
		}
	}

	if len(seriesBySymbol) < 2 {
		return nil, time.Time{}, fmt.Errorf("correlation matrix: %w", contracts.ErrDataUnavailable)
	}
	return e.riskCalc.CorrelationMatrixFor(seriesBySymbol), asOf, nil
}
