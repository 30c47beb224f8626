package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// All environment variables are read here and nowhere else.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// External data providers
	Finnhub  FinnhubConfig
	Treasury TreasuryConfig

	// Engine defaults (the strategy YAML refines scoring parameters)
	Engine EngineConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	URL string

	// Connection pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// FinnhubConfig holds the daily-candle provider configuration.
type FinnhubConfig struct {
	APIKey  string
	BaseURL string
	// Requests per minute allowed by the provider tier.
	RateLimitPerMin int
}

// TreasuryConfig holds the treasury yield source configuration.
type TreasuryConfig struct {
	BaseURL string
}

// EngineConfig holds engine-level defaults. Scoring parameters (benchmark,
// risk window, bands, baselines) live in the strategy YAML, not here.
type EngineConfig struct {
	StrategyPath     string
	Workers          int     // parallel per-symbol pipelines in a batch run
	RiskFreeFallback float64 // annual fraction, used when no GS10 row exists
}

// Load reads configuration from environment variables.
// Only this function calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 5),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", true),
		},

		Finnhub: FinnhubConfig{
			APIKey:          getEnv("FINNHUB_API_KEY", ""),
			BaseURL:         getEnv("FINNHUB_BASE_URL", "https://finnhub.io/api/v1"),
			RateLimitPerMin: getEnvAsInt("FINNHUB_RATE_LIMIT_PER_MIN", 55),
		},

		Treasury: TreasuryConfig{
			BaseURL: getEnv("TREASURY_BASE_URL", "https://home.treasury.gov"),
		},

		Engine: EngineConfig{
			StrategyPath:     getEnv("STRATEGY_PATH", "config/strategy/etf_core_v1.yaml"),
			Workers:          getEnvAsInt("ENGINE_WORKERS", 4),
			RiskFreeFallback: getEnvAsFloat("RISK_FREE_FALLBACK", 0.045),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set.
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}
	if c.Engine.Workers <= 0 {
		return fmt.Errorf("ENGINE_WORKERS must be > 0")
	}
	if c.Engine.RiskFreeFallback < 0 || c.Engine.RiskFreeFallback > 0.25 {
		return fmt.Errorf("RISK_FREE_FALLBACK must be a fraction in [0, 0.25]")
	}
	return nil
}

// loadEnvFile tries to load .env from multiple locations.
func loadEnvFile() {
	paths := []string{
		".env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
