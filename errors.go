package cryptofolio

import (
	"errors"
	"fmt"

	"github.com/etnz/cryptofolio/date"
)

var (
	// ErrInvalidWindow is returned when a window ends before it starts.
	ErrInvalidWindow = errors.New("invalid window")
	// ErrNoPriceSeries is returned when a held symbol has no price series at all.
	ErrNoPriceSeries = errors.New("no price series")
	// ErrInsufficientData is returned when a series does not cover the requested window.
	ErrInsufficientData = errors.New("insufficient local data for requested window")
)

// ReconciliationError reports a sale that could not be matched against enough lots.
type ReconciliationError struct {
	Symbol    string
	On        date.Date
	Unmatched Quantity
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("cannot reconcile %s sale on %s: %s units have no matching buy", e.Symbol, e.On, e.Unmatched)
}

// MissingPriceError reports a (symbol, date) pair with no price.
type MissingPriceError struct {
	Symbol string
	On     date.Date
}

func (e *MissingPriceError) Error() string {
	return fmt.Sprintf("no price for %s on %s", e.Symbol, e.On)
}

// StandardizationError reports a trade group whose fee cannot be computed: it does not
// have exactly two legs, or its legs are valued in different currencies.
type StandardizationError struct {
	TradeID    string
	Legs       int
	Currencies []string // currencies of the legs, set when they differ.
}

func (e *StandardizationError) Error() string {
	if len(e.Currencies) > 0 {
		return fmt.Sprintf("trade %q mixes currencies %v: fee left unknown", e.TradeID, e.Currencies)
	}
	return fmt.Sprintf("trade %q has %d legs, want 2: fee left unknown", e.TradeID, e.Legs)
}

// Diagnostics accumulates the errors that affect only a subset of symbols or dates.
// The computation that produced them went on with a best effort result.
type Diagnostics []error

// Err joins all diagnostics in a single error, nil if there are none.
func (d Diagnostics) Err() error { return errors.Join(d...) }

// Reconciliations returns the reconciliation errors.
func (d Diagnostics) Reconciliations() []*ReconciliationError { return filter[*ReconciliationError](d) }

// MissingPrices returns the missing price errors.
func (d Diagnostics) MissingPrices() []*MissingPriceError { return filter[*MissingPriceError](d) }

// Standardizations returns the standardization errors.
func (d Diagnostics) Standardizations() []*StandardizationError {
	return filter[*StandardizationError](d)
}

// unique drops the repeated diagnostics, keeping the first occurrence.
func (d Diagnostics) unique() Diagnostics {
	seen := make(map[string]bool, len(d))
	var list Diagnostics
	for _, err := range d {
		if msg := err.Error(); !seen[msg] {
			seen[msg] = true
			list = append(list, err)
		}
	}
	return list
}

func filter[E error](d Diagnostics) []E {
	var list []E
	for _, err := range d {
		var e E
		if errors.As(err, &e) {
			list = append(list, e)
		}
	}
	return list
}
