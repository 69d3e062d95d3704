package cryptofolio

import (
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/etnz/cryptofolio/date"
)

// Tracker computes the daily valuation of a portfolio over any window.
//
// A Tracker holds its own copy of the transactions, runs never share state and can be
// executed concurrently.
type Tracker struct {
	txs       []Transaction
	prices    Prices
	benchmark string
	rebase    bool
	log       zerolog.Logger
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithBenchmark compares every lot with the same money invested in symbol.
func WithBenchmark(symbol string) Option { return func(t *Tracker) { t.benchmark = symbol } }

// WithRebaseAtStart measures returns from the start of the window.
func WithRebaseAtStart() Option { return func(t *Tracker) { t.rebase = true } }

// WithLogger sets the logger used to report the diagnostics of each run.
func WithLogger(log zerolog.Logger) Option { return func(t *Tracker) { t.log = log } }

// NewTracker returns a Tracker over canonical transactions and daily closes.
func NewTracker(txs []Transaction, prices Prices, opts ...Option) *Tracker {
	t := &Tracker{
		txs:    slices.Clone(txs),
		prices: prices,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Report is the outcome of a Tracker run.
type Report struct {
	Window      date.Range
	Snapshots   []DailySnapshot
	Table       Table
	Diagnostics Diagnostics
}

// Run reconstructs and valuates the portfolio for every day of the window.
//
// It fails when the window is invalid, when a symbol held in the window has no price at
// all, or when the benchmark does not cover the window. Anything else is reported in the
// diagnostics of the Report.
func (t *Tracker) Run(window date.Range) (*Report, error) {
	snapshots, diags, err := Reconstruct(t.txs, window)
	if err != nil {
		return nil, err
	}

	for _, symbol := range heldSymbols(snapshots) {
		if t.prices[symbol].Len() == 0 {
			return nil, fmt.Errorf("%w for %s", ErrNoPriceSeries, symbol)
		}
	}
	opts := ValuationOptions{RebaseAtStart: t.rebase}
	if t.benchmark != "" {
		if err := t.prices.Check(t.benchmark, window); err != nil {
			return nil, fmt.Errorf("benchmark: %w", err)
		}
		opts.Benchmark = t.benchmark
		opts.BenchmarkSeries = t.prices[t.benchmark]
	}

	table, d := Valuate(snapshots, t.prices, opts)
	diags = append(diags, d...)

	t.log.Debug().Stringer("window", window).Int("rows", len(table)).Msg("portfolio valuated")
	for _, err := range diags {
		t.log.Warn().Err(err).Msg("diagnostic")
	}
	return &Report{Window: window, Snapshots: snapshots, Table: table, Diagnostics: diags}, nil
}

// heldSymbols returns the symbols held on any day, sorted.
func heldSymbols(snapshots []DailySnapshot) []string {
	var symbols []string
	for _, s := range snapshots {
		for _, l := range s.Lots {
			if i, found := slices.BinarySearch(symbols, l.Symbol); !found {
				symbols = slices.Insert(symbols, i, l.Symbol)
			}
		}
	}
	return symbols
}

// DefaultWindow returns the window from the first transaction to the day before today.
// Today's close is not final yet.
func DefaultWindow(txs []Transaction, today date.Date) (date.Range, error) {
	if len(txs) == 0 {
		return date.Range{}, fmt.Errorf("%w: no transactions", ErrInvalidWindow)
	}
	first := txs[0].On
	for _, tx := range txs[1:] {
		if tx.On.Before(first) {
			first = tx.On
		}
	}
	r, err := date.NewRange(first, today.Add(-1))
	if err != nil {
		return date.Range{}, fmt.Errorf("%w: %w", ErrInvalidWindow, err)
	}
	return r, nil
}
