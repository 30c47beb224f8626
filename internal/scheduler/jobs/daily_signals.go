package jobs

import (
	"context"
	"fmt"

	"github.com/quantfolio/advisor/internal/advisor"
	"github.com/quantfolio/advisor/internal/collector"
	"github.com/quantfolio/advisor/internal/contracts"
	"github.com/quantfolio/advisor/pkg/logger"
)

// DailySignalsJob collects fresh market data after the US close, reruns the
// scoring pipeline for every tracked symbol and persists the combined
// signals.
type DailySignalsJob struct {
	collector       *collector.Collector
	engine          *advisor.Engine
	recommendations contracts.RecommendationRepository
	symbols         []string
	historyDays     int
	logger          *logger.Logger
}

// NewDailySignalsJob creates the daily job. historyDays is how many
// calendar days of bars to refresh on each run.
func NewDailySignalsJob(c *collector.Collector, e *advisor.Engine, recs contracts.RecommendationRepository, symbols []string, historyDays int, log *logger.Logger) *DailySignalsJob {
	return &DailySignalsJob{
		collector:       c,
		engine:          e,
		recommendations: recs,
		symbols:         symbols,
		historyDays:     historyDays,
		logger:          log.WithField("job", "daily_signals"),
	}
}

// Name returns the job name
func (j *DailySignalsJob) Name() string {
	return "daily_signals"
}

// Schedule runs at 22:30 UTC on weekdays, after the US market close.
func (j *DailySignalsJob) Schedule() string {
	return "0 30 22 * * 1-5"
}

// Run collects, analyzes and persists. Collection failures for individual
// symbols degrade that symbol's analysis but never abort the run.
func (j *DailySignalsJob) Run(ctx context.Context) error {
	fetches := j.collector.CollectPrices(ctx, j.symbols, j.historyDays)
	fetchFailures := 0
	for _, f := range fetches {
		if f.Error != nil {
			fetchFailures++
		}
	}
	if fetchFailures == len(fetches) {
		return fmt.Errorf("price collection failed for all %d symbols", len(fetches))
	}

	if err := j.collector.CollectRiskFree(ctx); err != nil {
		// Analysis falls back to the last stored rate.
		j.logger.WithError(err).Warn("Treasury yield collection failed")
	}

	results, err := j.engine.AnalyzeAll(ctx)
	if err != nil {
		return err
	}

	saved := 0
	for _, r := range results {
		if r.Signal == nil {
			continue
		}
		if err := j.recommendations.SaveSignal(ctx, r.Signal); err != nil {
			j.logger.WithError(err).WithField("symbol", r.Symbol).Error("Failed to save signal")
			continue
		}
		saved++
	}

	j.logger.WithFields(map[string]interface{}{
		"analyzed": len(results),
		"saved":    saved,
	}).Info("Daily signals refreshed")

	return nil
}
