package commands

import (
	"fmt"

	"github.com/quantfolio/advisor/internal/advisor"
	"github.com/quantfolio/advisor/internal/collector"
	"github.com/quantfolio/advisor/internal/store"
	"github.com/quantfolio/advisor/internal/strategyconfig"
	"github.com/quantfolio/advisor/pkg/config"
	"github.com/quantfolio/advisor/pkg/database"
	"github.com/quantfolio/advisor/pkg/httputil"
	"github.com/quantfolio/advisor/pkg/logger"
	"github.com/quantfolio/advisor/pkg/redis"
)

// app bundles the wired-up dependencies every command starts from.
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	db       *database.DB
	redis    *redis.Client
	strategy *strategyconfig.Config

	prices          *store.PriceRepository
	rates           *store.RatesRepository
	recommendations *store.RecommendationRepository

	engine    *advisor.Engine
	collector *collector.Collector
}

// newApp loads config, connects to Postgres and Redis, loads the strategy
// file and wires the engine and collector.
func newApp() (*app, error) {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if strategyFile != "" {
		cfg.Engine.StrategyPath = strategyFile
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Load and validate strategy
	strategy, _, err := strategyconfig.Load(cfg.Engine.StrategyPath)
	if err != nil {
		return nil, fmt.Errorf("load strategy: %w", err)
	}

	hash, err := strategyconfig.Hash(strategy)
	if err != nil {
		return nil, fmt.Errorf("hash strategy: %w", err)
	}

	log.WithFields(map[string]interface{}{
		"strategy_id": strategy.Meta.StrategyID,
		"version":     strategy.Meta.Version,
		"hash":        hash,
		"symbols":     len(strategy.Baselines),
	}).Info("Strategy loaded")

	// 4. Connect to database
	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	// 5. Connect to Redis (optional, disabled mode is a no-op)
	rds, err := redis.New(cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	// 6. Create repositories
	prices := store.NewPriceRepository(db.Pool)
	rates := store.NewRatesRepository(db.Pool)
	recommendations := store.NewRecommendationRepository(db.Pool)

	// 7. Create external API clients
	httpClient := httputil.New(cfg, log)
	finnhub := collector.NewFinnhubClient(cfg, log, httpClient)
	treasury := collector.NewTreasuryClient(cfg, log, httpClient)

	// 8. Create collector and engine
	col := collector.New(finnhub, treasury, prices, rates, log)
	engine := advisor.NewEngine(log, cfg, strategy, prices, rates)

	return &app{
		cfg:             cfg,
		log:             log,
		db:              db,
		redis:           rds,
		strategy:        strategy,
		prices:          prices,
		rates:           rates,
		recommendations: recommendations,
		engine:          engine,
		collector:       col,
	}, nil
}

// Close releases the database and Redis connections.
func (a *app) Close() {
	if a.redis != nil {
		a.redis.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}
