package risk

import (
	"sort"
	"time"

	"github.com/quantfolio/advisor/internal/contracts"
	"github.com/quantfolio/advisor/pkg/logger"
)

// Metrics holds every risk measure for one symbol over one window.
type Metrics struct {
	Symbol string    `json:"symbol"`
	AsOf   time.Time `json:"as_of"`
	Window int       `json:"window"` // bars used

	Volatility contracts.Value `json:"volatility"` // annualized fraction
	Beta       contracts.Value `json:"beta"`
	Sharpe     contracts.Value `json:"sharpe"`
	Drawdown   Drawdown        `json:"drawdown"`
	VaR95      contracts.Value `json:"var_95"`
	Calmar     contracts.Value `json:"calmar"`
}

// Calculator computes risk metrics over a trailing window.
// Risk math lives only here.
type Calculator struct {
	logger *logger.Logger
	window int
}

// NewCalculator creates a risk calculator with the given trailing window
// in bars.
func NewCalculator(log *logger.Logger, window int) *Calculator {
	return &Calculator{logger: log, window: window}
}

// Compute derives all risk metrics for symbol. benchmark may be nil, in
// which case beta comes back insufficient. riskFree is an annual decimal
// fraction. Measures that lack history come back absent rather than
// failing the whole result; only an empty series is an error.
func (c *Calculator) Compute(symbol string, series, benchmark contracts.PriceSeries, riskFree float64) (*Metrics, error) {
	last, ok := series.Last()
	if !ok {
		return nil, &contracts.InsufficientHistoryError{What: "risk metrics", Need: 2, Have: 0}
	}

	window := series.Tail(c.window)
	returns := DailyReturns(window)

	m := &Metrics{
		Symbol: symbol,
		AsOf:   last.Date,
		Window: len(window),

		Volatility: AnnualVolatility(returns),
		Sharpe:     Sharpe(returns, riskFree),
		Drawdown:   MaxDrawdown(window),
		VaR95:      VaR95(returns),
	}
	m.Calmar = Calmar(returns, m.Drawdown.Value)

	if benchmark != nil {
		m.Beta = Beta(returns, DailyReturns(benchmark.Tail(c.window)))
	} else {
		m.Beta = contracts.Insufficient()
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"window": m.Window,
		"as_of":  last.Date.Format("2006-01-02"),
	}).Debug("Computed risk metrics")

	return m, nil
}

// CorrelationMatrix is a symmetric Pearson matrix over a symbol set.
type CorrelationMatrix struct {
	Symbols []string                     `json:"symbols"`
	Values  map[string]map[string]contracts.Value `json:"values"`
}

// At returns the correlation between two symbols.
func (m *CorrelationMatrix) At(a, b string) contracts.Value {
	row, ok := m.Values[a]
	if !ok {
		return contracts.Insufficient()
	}
	v, ok := row[b]
	if !ok {
		return contracts.Insufficient()
	}
	return v
}

// CorrelationMatrixFor computes pairwise return correlations over the
// calculator's window. The diagonal is exactly 1.0.
func (c *Calculator) CorrelationMatrixFor(seriesBySymbol map[string]contracts.PriceSeries) *CorrelationMatrix {
	symbols := make([]string, 0, len(seriesBySymbol))
	for s := range seriesBySymbol {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	returns := make(map[string][]ReturnPoint, len(symbols))
	for _, s := range symbols {
		returns[s] = DailyReturns(seriesBySymbol[s].Tail(c.window))
	}

	matrix := &CorrelationMatrix{
		Symbols: symbols,
		Values:  make(map[string]map[string]contracts.Value, len(symbols)),
	}
	for _, s := range symbols {
		matrix.Values[s] = make(map[string]contracts.Value, len(symbols))
	}

	for i, a := range symbols {
		matrix.Values[a][a] = contracts.Present(1.0)
		for _, b := range symbols[i+1:] {
			corr := Correlation(returns[a], returns[b])
			matrix.Values[a][b] = corr
			matrix.Values[b][a] = corr
		}
	}
	return matrix
}
