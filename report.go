package cryptofolio

import (
	"context"
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"

	"github.com/etnz/cryptofolio/date"
)

// Table is the valuation of every lot on every day, sorted by day.
type Table []Row

// Column names a numeric column of a Table.
type Column string

const (
	ColQuantity          Column = "quantity"
	ColCostBasis         Column = "cost_basis"
	ColMarketValue       Column = "market_value"
	ColGainLoss          Column = "gain_loss"
	ColAssetReturn       Column = "asset_return"
	ColBenchmarkValue    Column = "benchmark_value"
	ColBenchmarkGainLoss Column = "benchmark_gain_loss"
	ColBenchmarkReturn   Column = "benchmark_return"
	ColExcessReturn      Column = "excess_return"
)

// Columns lists all the known columns.
var Columns = []Column{
	ColQuantity, ColCostBasis, ColMarketValue, ColGainLoss, ColAssetReturn,
	ColBenchmarkValue, ColBenchmarkGainLoss, ColBenchmarkReturn, ColExcessReturn,
}

// ParseColumns parses a comma separated list of column names.
func ParseColumns(s string) ([]Column, error) {
	var cols []Column
	for _, name := range strings.Split(s, ",") {
		c := Column(strings.TrimSpace(name))
		if !slices.Contains(Columns, c) {
			return nil, fmt.Errorf("unknown column %q", name)
		}
		cols = append(cols, c)
	}
	return cols, nil
}

// value returns the column of r, false if r has no valid value for it. Quantities are
// summed from Row.Remaining instead.
func (c Column) value(r Row) (float64, bool) {
	var v float64
	switch c {
	case ColCostBasis:
		return r.CostBasis, true
	case ColMarketValue:
		v = r.MarketValue
	case ColGainLoss:
		v = r.GainLoss
	case ColAssetReturn:
		v = r.AssetReturn
	case ColBenchmarkValue, ColBenchmarkGainLoss, ColBenchmarkReturn, ColExcessReturn:
		if !r.benchmarked() {
			return 0, false
		}
		v = map[Column]float64{
			ColBenchmarkValue:    r.BenchmarkValue,
			ColBenchmarkGainLoss: r.BenchmarkGainLoss,
			ColBenchmarkReturn:   r.BenchmarkReturn,
			ColExcessReturn:      r.ExcessReturn,
		}[c]
	default:
		return 0, false
	}
	if !r.Priced || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// Grouped is a wide table of daily sums, ready to chart.
type Grouped struct {
	Dates   []date.Date
	Columns []string    // metric, or "SYMBOL/metric" when grouped by symbol.
	Values  [][]float64 // Values[i][j] is Columns[j] on Dates[i], NaN when nothing to sum.
}

// Get returns the value of column on a given day.
func (g *Grouped) Get(on date.Date, column string) (float64, bool) {
	i := slices.Index(g.Dates, on)
	j := slices.Index(g.Columns, column)
	if i < 0 || j < 0 || math.IsNaN(g.Values[i][j]) {
		return 0, false
	}
	return g.Values[i][j], true
}

// DailyGroupedMetrics sums the columns for every day of window, and per symbol if bySymbol.
//
// Rows without a valid value for a column (unpriced, no benchmark) are left out of the
// sum. A day without any lot sums to zero, but a symbol not held on a day is NaN.
// Quantities are summed exactly before conversion.
func (t Table) DailyGroupedMetrics(window date.Range, columns []Column, bySymbol bool) (*Grouped, error) {
	if err := window.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidWindow, err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("no column to group")
	}
	for _, c := range columns {
		if !slices.Contains(Columns, c) {
			return nil, fmt.Errorf("unknown column %q", c)
		}
	}

	symbols := []string{""}
	if bySymbol {
		symbols = t.Symbols()
	}
	g := &Grouped{}
	index := make(map[string]int) // column name to index in g.Columns
	for _, s := range symbols {
		for _, c := range columns {
			name := string(c)
			if s != "" {
				name = s + "/" + name
			}
			index[name] = len(g.Columns)
			g.Columns = append(g.Columns, name)
		}
	}

	for on := range window.Days() {
		rows := t.SnapshotAt(on)
		line := make([]float64, len(g.Columns))
		if bySymbol || len(rows) > 0 {
			for j := range line {
				line[j] = math.NaN()
			}
		}
		quantities := make(map[int]Quantity)
		for _, r := range rows {
			for _, c := range columns {
				name := string(c)
				if bySymbol {
					name = r.Symbol + "/" + name
				}
				j := index[name]
				if c == ColQuantity {
					quantities[j] = quantities[j].Add(r.Remaining)
					continue
				}
				v, ok := c.value(r)
				if !ok {
					continue
				}
				if math.IsNaN(line[j]) {
					line[j] = 0
				}
				line[j] += v
			}
		}
		for j, q := range quantities {
			line[j] = q.Float()
		}
		g.Dates = append(g.Dates, on)
		g.Values = append(g.Values, line)
	}
	return g, nil
}

// Symbols returns the distinct symbols of the table, sorted.
func (t Table) Symbols() []string {
	set := make(map[string]struct{})
	for _, r := range t {
		set[r.Symbol] = struct{}{}
	}
	return slices.Sorted(maps.Keys(set))
}

// SnapshotAt returns the rows of a single day.
func (t Table) SnapshotAt(on date.Date) Table {
	i, _ := slices.BinarySearchFunc(t, on, func(r Row, on date.Date) int { return r.On.Compare(on) })
	j := i
	for j < len(t) && t[j].On == on {
		j++
	}
	return t[i:j:j]
}

// Last returns the rows of the most recent day.
func (t Table) Last() Table {
	if len(t) == 0 {
		return nil
	}
	return t.SnapshotAt(t[len(t)-1].On)
}

// QuoteFunc returns the current price of a symbol in the reporting currency.
type QuoteFunc func(ctx context.Context, symbol string) (float64, error)

// LiveSnapshot re-prices the most recent day with live quotes.
//
// Every symbol, benchmark included, is quoted once. Rows whose quote failed are
// returned unpriced and the failure is reported.
func (t Table) LiveSnapshot(ctx context.Context, quote QuoteFunc) (Table, Diagnostics) {
	var diags Diagnostics
	live := slices.Clone(t.Last())

	quotes := make(map[string]float64)
	failed := make(map[string]bool)
	get := func(symbol string) (float64, bool) {
		if v, ok := quotes[symbol]; ok {
			return v, true
		}
		if failed[symbol] {
			return 0, false
		}
		v, err := quote(ctx, symbol)
		if err != nil {
			failed[symbol] = true
			diags = append(diags, fmt.Errorf("live quote for %s: %w", symbol, err))
			return 0, false
		}
		quotes[symbol] = v
		return v, true
	}

	for i := range live {
		r := &live[i]
		price, ok := get(r.Symbol)
		if !ok {
			r.Priced, r.Price, r.MarketValue = false, 0, 0
		} else {
			r.setPrice(price)
		}
		if r.benchmarked() {
			if today, ok := get(r.Benchmark); ok {
				r.BenchmarkToday = today
				r.BenchmarkValue = r.BenchmarkUnits * today
			} else {
				r.Benchmark = ""
			}
		}
		ComputeReturns(r)
	}
	return live, diags
}
