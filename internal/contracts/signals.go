package contracts

import "time"

// Domain names used across scorers, aggregation and persistence.
const (
	DomainTechnical   = "technical"
	DomainFundamental = "fundamental"
	DomainRisk        = "risk"
)

// ScoreComponent is one scored aspect of a domain (moving averages, RSI,
// valuation, volatility, ...). Score is an integer inside [Min, Max].
// Valid is false when the underlying inputs were missing; such components
// contribute nothing to the domain total.
type ScoreComponent struct {
	Name    string   `json:"name"`
	Score   int      `json:"score"`
	Min     int      `json:"min"`
	Max     int      `json:"max"`
	Reasons []string `json:"reasons,omitempty"`
	Valid   bool     `json:"valid"`
}

// DomainScore is the summed result of one scoring domain.
// Scorer → aggregator data contract.
type DomainScore struct {
	Domain     string           `json:"domain"`
	Components []ScoreComponent `json:"components"`
	Total      int              `json:"total"`
	Min        int              `json:"min"`
	Max        int              `json:"max"`
	Label      string           `json:"label"`
	Valid      bool             `json:"valid"`
}

// Sum recomputes Total from the valid components.
func (d *DomainScore) Sum() int {
	total := 0
	for _, c := range d.Components {
		if c.Valid {
			total += c.Score
		}
	}
	return total
}

// ValidCount returns how many components carry a usable score.
func (d *DomainScore) ValidCount() int {
	n := 0
	for _, c := range d.Components {
		if c.Valid {
			n++
		}
	}
	return n
}

// CombinedSignal is the final per-symbol output: the three domain scores,
// the weighted composite in [-1, +1] and its classification label.
type CombinedSignal struct {
	Symbol         string       `json:"symbol"`
	AsOf           time.Time    `json:"as_of"`
	Technical      *DomainScore `json:"technical,omitempty"`
	Fundamental    *DomainScore `json:"fundamental,omitempty"`
	Risk           *DomainScore `json:"risk,omitempty"`
	Composite      float64      `json:"composite"`
	Classification string       `json:"classification"`
}

// IsPositive reports whether the composite leans toward buying.
func (cs *CombinedSignal) IsPositive() bool {
	return cs.Composite > 0
}
