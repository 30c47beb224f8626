package contracts

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors shared by the data and calculation layers.
var (
	// ErrDataUnavailable means a required upstream input (prices, rates,
	// baselines) could not be fetched at all.
	ErrDataUnavailable = errors.New("required data unavailable")

	// ErrBaselineNotFound means no fundamental baseline is configured
	// for the requested symbol.
	ErrBaselineNotFound = errors.New("fundamental baseline not found")
)

// InsufficientHistoryError reports that a calculation needed more bars
// than the series provides.
type InsufficientHistoryError struct {
	What string // what was being computed
	Need int    // bars required
	Have int    // bars available
}

func (e *InsufficientHistoryError) Error() string {
	return fmt.Sprintf("%s: need %d bars, have %d", e.What, e.Need, e.Have)
}

// DegenerateInputError reports that a calculation received numerically
// meaningless input (zero variance, identical series, ...).
type DegenerateInputError struct {
	What   string
	Reason string
}

func (e *DegenerateInputError) Error() string {
	return fmt.Sprintf("%s: degenerate input: %s", e.What, e.Reason)
}

// ConfigurationError reports an invalid strategy or runtime configuration
// value detected at load time.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

// AggregationInputError reports that one or more domain scores required to
// build the composite signal were missing for a symbol.
type AggregationInputError struct {
	Symbol  string
	Missing []string
}

func (e *AggregationInputError) Error() string {
	return fmt.Sprintf("cannot aggregate %s: missing %s", e.Symbol, strings.Join(e.Missing, ", "))
}
