package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quantfolio/advisor/internal/contracts"
)

// IndicatorGS10 is the 10-year Treasury constant-maturity yield, stored in
// percent (4.5 means 4.5%).
const IndicatorGS10 = "GS10"

// RatesRepository implements contracts.RatesRepository on Postgres.
type RatesRepository struct {
	pool *pgxpool.Pool
}

// NewRatesRepository creates a new rates repository
func NewRatesRepository(pool *pgxpool.Pool) *RatesRepository {
	return &RatesRepository{pool: pool}
}

// LatestRiskFree returns the most recent GS10 observation converted to an
// annual decimal fraction.
func (r *RatesRepository) LatestRiskFree(ctx context.Context) (float64, time.Time, error) {
	query := `
		SELECT value, date
		FROM economic_indicators
		WHERE indicator_code = $1
		ORDER BY date DESC
		LIMIT 1
	`

	var pct float64
	var date time.Time
	err := r.pool.QueryRow(ctx, query, IndicatorGS10).Scan(&pct, &date)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, time.Time{}, fmt.Errorf("no %s observations: %w", IndicatorGS10, contracts.ErrDataUnavailable)
		}
		return 0, time.Time{}, err
	}
	return pct / 100.0, date, nil
}

// SaveRate stores one observation of the named indicator.
func (r *RatesRepository) SaveRate(ctx context.Context, indicator string, date time.Time, value float64) error {
	query := `
		INSERT INTO economic_indicators (indicator_code, date, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (indicator_code, date) DO UPDATE SET
			value = EXCLUDED.value
	`

	_, err := r.pool.Exec(ctx, query, indicator, date, value)
	return err
}
