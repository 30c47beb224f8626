package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quantfolio/advisor/internal/contracts"
)

// PriceRepository implements contracts.PriceRepository on Postgres.
// Daily price persistence lives only here.
type PriceRepository struct {
	pool *pgxpool.Pool
}

// NewPriceRepository creates a new price repository
func NewPriceRepository(pool *pgxpool.Pool) *PriceRepository {
	return &PriceRepository{pool: pool}
}

// GetDailyPrices returns up to limit most recent bars for symbol in
// chronological order.
func (r *PriceRepository) GetDailyPrices(ctx context.Context, symbol string, limit int) (contracts.PriceSeries, error) {
	query := `
		SELECT date, open, high, low, close, adjusted_close, volume
		FROM (
			SELECT date, open, high, low, close, adjusted_close, volume
			FROM daily_prices
			WHERE symbol = $1
			ORDER BY date DESC
			LIMIT $2
		) recent
		ORDER BY date ASC
	`

	rows, err := r.pool.Query(ctx, query, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("query daily prices for %s: %w", symbol, err)
	}
	defer rows.Close()

	var series contracts.PriceSeries
	for rows.Next() {
		var b contracts.PriceBar
		if err := rows.Scan(&b.Date, &b.Open, &b.High, &b.Low, &b.Close, &b.AdjClose, &b.Volume); err != nil {
			return nil, err
		}
		series = append(series, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("%s: %w", symbol, contracts.ErrDataUnavailable)
	}
	return series, nil
}

// SaveDailyPrices upserts daily bars for a symbol in one batch.
func (r *PriceRepository) SaveDailyPrices(ctx context.Context, symbol string, bars contracts.PriceSeries) error {
	if len(bars) == 0 {
		return nil
	}

	query := `
		INSERT INTO daily_prices (symbol, date, open, high, low, close, adjusted_close, volume)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (symbol, date) DO UPDATE SET
			open = EXCLUDED.open,
			high = EXCLUDED.high,
			low = EXCLUDED.low,
			close = EXCLUDED.close,
			adjusted_close = EXCLUDED.adjusted_close,
			volume = EXCLUDED.volume
	`

	batch := &pgx.Batch{}
	for _, b := range bars {
		batch.Queue(query, symbol, b.Date, b.Open, b.High, b.Low, b.Close, b.AdjClose, b.Volume)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()
	for range bars {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("upsert daily prices for %s: %w", symbol, err)
		}
	}
	return nil
}
