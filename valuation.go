package cryptofolio

import (
	"fmt"
	"math"

	"github.com/etnz/cryptofolio/date"
)

// Prices maps a symbol to its series of daily close prices in the reporting currency.
type Prices map[string]*date.History[float64]

// Set records the close of symbol on a given day.
func (p Prices) Set(symbol string, on date.Date, close float64) {
	h, ok := p[symbol]
	if !ok {
		h = new(date.History[float64])
		p[symbol] = h
	}
	h.Append(on, close)
}

// Price returns the close of symbol on day 'on'.
func (p Prices) Price(symbol string, on date.Date) (float64, bool) {
	return p[symbol].Get(on)
}

// Check returns an error unless symbol has a close for every day of r.
func (p Prices) Check(symbol string, r date.Range) error {
	h := p[symbol]
	if h.Len() == 0 {
		return fmt.Errorf("%w for %s", ErrNoPriceSeries, symbol)
	}
	if !h.Covers(r) {
		first, _ := h.Earliest()
		last, _ := h.Latest()
		return fmt.Errorf("%w: %s has %s..%s, want %s", ErrInsufficientData, symbol, first, last, r)
	}
	return nil
}

// Row is the valuation of one lot on one day.
type Row struct {
	On          date.Date
	LotID       int
	Symbol      string
	Open        date.Date
	Remaining   Quantity // exact quantity of the lot.
	Quantity    float64
	CostPerUnit float64
	CostBasis   float64

	Priced      bool // false when no price was found, market columns are then zero.
	Price       float64
	MarketValue float64
	GainLoss    float64
	AssetReturn float64 // NaN when the cost basis is zero.

	Benchmark         string // benchmark symbol, empty when not benchmarked.
	BenchmarkAtOpen   float64
	BenchmarkToday    float64
	BenchmarkUnits    float64 // benchmark units the cost basis would have bought.
	BenchmarkValue    float64
	BenchmarkGainLoss float64
	BenchmarkReturn   float64
	ExcessReturn      float64 // AssetReturn - BenchmarkReturn
}

// benchmarked reports whether the benchmark columns are valid.
func (r Row) benchmarked() bool { return r.Benchmark != "" && r.BenchmarkAtOpen != 0 }

// AttachMarketPrice values every lot of the snapshot at the close of that day.
//
// A lot with no price is still returned, unpriced, and reported once per symbol.
func AttachMarketPrice(s DailySnapshot, prices Prices) ([]Row, Diagnostics) {
	var diags Diagnostics
	missing := make(map[string]bool)
	rows := make([]Row, 0, len(s.Lots))
	for _, lot := range s.Lots {
		r := Row{
			On:          s.On,
			LotID:       lot.ID,
			Symbol:      lot.Symbol,
			Open:        lot.Open,
			Remaining:   lot.Remaining,
			Quantity:    lot.Remaining.Float(),
			CostPerUnit: lot.CostPerUnit.Float(),
			CostBasis:   lot.CostBasis().Float(),
		}
		if price, ok := prices.Price(lot.Symbol, s.On); ok {
			r.setPrice(price)
		} else if !missing[lot.Symbol] {
			missing[lot.Symbol] = true
			diags = append(diags, &MissingPriceError{Symbol: lot.Symbol, On: s.On})
		}
		rows = append(rows, r)
	}
	return rows, diags
}

func (r *Row) setPrice(price float64) {
	r.Priced = true
	r.Price = price
	r.MarketValue = price * r.Quantity
}

// rebase replaces the cost of the lots opened on or before start by the close on start.
func rebase(rows []Row, prices Prices, start date.Date) Diagnostics {
	var diags Diagnostics
	missing := make(map[string]bool)
	for i := range rows {
		r := &rows[i]
		if r.Open.After(start) {
			continue
		}
		price, ok := prices.Price(r.Symbol, start)
		if !ok {
			if !missing[r.Symbol] {
				missing[r.Symbol] = true
				diags = append(diags, &MissingPriceError{Symbol: r.Symbol, On: start})
			}
			continue
		}
		r.CostPerUnit = price
		r.CostBasis = price * r.Quantity
	}
	return diags
}

// AttachBenchmark adds the value the cost basis of each lot would have today if it had
// bought the benchmark on the day the lot was opened.
//
// Lots opened before start use the close on start when the benchmark has no close on
// their opening day.
func AttachBenchmark(rows []Row, benchmark string, series *date.History[float64], start date.Date) Diagnostics {
	var diags Diagnostics
	missing := make(map[date.Date]bool)
	report := func(on date.Date) {
		if !missing[on] {
			missing[on] = true
			diags = append(diags, &MissingPriceError{Symbol: benchmark, On: on})
		}
	}
	for i := range rows {
		r := &rows[i]
		r.Benchmark = benchmark
		atOpen, ok := series.Get(r.Open)
		if !ok && r.Open.Before(start) {
			atOpen, ok = series.Get(start)
		}
		if !ok || atOpen == 0 {
			report(r.Open)
			r.Benchmark = ""
			continue
		}
		today, ok := series.Get(r.On)
		if !ok {
			report(r.On)
			r.Benchmark = ""
			continue
		}
		r.BenchmarkAtOpen = atOpen
		r.BenchmarkToday = today
		r.BenchmarkUnits = r.CostBasis / atOpen
		r.BenchmarkValue = r.BenchmarkUnits * today
	}
	return diags
}

// ComputeReturns computes gains and returns from the value columns.
func ComputeReturns(r *Row) {
	r.GainLoss, r.AssetReturn = 0, math.NaN()
	r.BenchmarkGainLoss, r.BenchmarkReturn, r.ExcessReturn = 0, math.NaN(), math.NaN()
	if !r.Priced {
		return
	}
	r.GainLoss = r.MarketValue - r.CostBasis
	if r.CostBasis != 0 {
		r.AssetReturn = r.MarketValue/r.CostBasis - 1
	}
	if !r.benchmarked() {
		return
	}
	r.BenchmarkGainLoss = r.BenchmarkValue - r.CostBasis
	if r.CostBasis != 0 {
		r.BenchmarkReturn = r.BenchmarkValue/r.CostBasis - 1
		r.ExcessReturn = r.AssetReturn - r.BenchmarkReturn
	}
}

// ValuationOptions controls the optional steps of Valuate.
type ValuationOptions struct {
	// Benchmark is the symbol of the benchmark, Valuate skips the benchmark if empty.
	Benchmark       string
	BenchmarkSeries *date.History[float64]
	// RebaseAtStart values lots opened on or before the first snapshot at the close of
	// that day, so that returns only measure the window.
	RebaseAtStart bool
}

// Valuate turns daily snapshots into a table with one row per day and lot.
func Valuate(snapshots []DailySnapshot, prices Prices, opts ValuationOptions) (Table, Diagnostics) {
	var diags Diagnostics
	if len(snapshots) == 0 {
		return nil, nil
	}
	start := snapshots[0].On
	var table Table
	for _, s := range snapshots {
		rows, d := AttachMarketPrice(s, prices)
		diags = append(diags, d...)
		if opts.RebaseAtStart {
			diags = append(diags, rebase(rows, prices, start)...)
		}
		if opts.Benchmark != "" {
			diags = append(diags, AttachBenchmark(rows, opts.Benchmark, opts.BenchmarkSeries, start)...)
		}
		for i := range rows {
			ComputeReturns(&rows[i])
		}
		table = append(table, rows...)
	}
	// the same missing price shows up on every day of the window.
	return table, diags.unique()
}
