package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quantfolio/advisor/internal/contracts"
)

// RecommendationRepository implements contracts.RecommendationRepository
// on Postgres. Domain component breakdowns are stored as JSONB.
type RecommendationRepository struct {
	pool *pgxpool.Pool
}

// NewRecommendationRepository creates a new recommendation repository
func NewRecommendationRepository(pool *pgxpool.Pool) *RecommendationRepository {
	return &RecommendationRepository{pool: pool}
}

// SaveSignal upserts one combined signal keyed by (symbol, as_of).
func (r *RecommendationRepository) SaveSignal(ctx context.Context, signal *contracts.CombinedSignal) error {
	components, err := json.Marshal(domainScores{
		Technical:   signal.Technical,
		Fundamental: signal.Fundamental,
		Risk:        signal.Risk,
	})
	if err != nil {
		return fmt.Errorf("marshal component scores: %w", err)
	}

	query := `
		INSERT INTO recommendations (
			symbol, as_of,
			technical_score, fundamental_score, risk_score,
			composite, classification, components
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (symbol, as_of) DO UPDATE SET
			technical_score = EXCLUDED.technical_score,
			fundamental_score = EXCLUDED.fundamental_score,
			risk_score = EXCLUDED.risk_score,
			composite = EXCLUDED.composite,
			classification = EXCLUDED.classification,
			components = EXCLUDED.components
	`

	_, err = r.pool.Exec(ctx, query,
		signal.Symbol, signal.AsOf,
		signal.Technical.Total, signal.Fundamental.Total, signal.Risk.Total,
		signal.Composite, signal.Classification, components,
	)
	return err
}

// LatestSignals returns the newest signal per symbol, best composite first.
func (r *RecommendationRepository) LatestSignals(ctx context.Context) ([]*contracts.CombinedSignal, error) {
	query := `
		SELECT DISTINCT ON (symbol)
			symbol, as_of, composite, classification, components
		FROM recommendations
		ORDER BY symbol, as_of DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var signals []*contracts.CombinedSignal
	for rows.Next() {
		signal, err := scanSignal(rows)
		if err != nil {
			return nil, err
		}
		signals = append(signals, signal)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Best opportunities first.
	sort.Slice(signals, func(i, j int) bool {
		return signals[i].Composite > signals[j].Composite
	})
	return signals, nil
}

// LatestSignal returns the newest signal for one symbol.
func (r *RecommendationRepository) LatestSignal(ctx context.Context, symbol string) (*contracts.CombinedSignal, error) {
	query := `
		SELECT symbol, as_of, composite, classification, components
		FROM recommendations
		WHERE symbol = $1
		ORDER BY as_of DESC
		LIMIT 1
	`

	rows, err := r.pool.Query(ctx, query, symbol)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", symbol, contracts.ErrDataUnavailable)
	}
	return scanSignal(rows)
}

// domainScores is the JSONB shape for the components column.
type domainScores struct {
	Technical   *contracts.DomainScore `json:"technical"`
	Fundamental *contracts.DomainScore `json:"fundamental"`
	Risk        *contracts.DomainScore `json:"risk"`
}

func scanSignal(rows pgx.Rows) (*contracts.CombinedSignal, error) {
	var signal contracts.CombinedSignal
	var components []byte
	if err := rows.Scan(&signal.Symbol, &signal.AsOf, &signal.Composite, &signal.Classification, &components); err != nil {
		return nil, err
	}

	var ds domainScores
	if err := json.Unmarshal(components, &ds); err != nil {
		return nil, fmt.Errorf("unmarshal component scores for %s: %w", signal.Symbol, err)
	}
	signal.Technical = ds.Technical
	signal.Fundamental = ds.Fundamental
	signal.Risk = ds.Risk
	return &signal, nil
}
