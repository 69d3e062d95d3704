package cryptofolio

import (
	"fmt"
	"maps"
	"slices"

	"github.com/etnz/cryptofolio/date"
)

// DailySnapshot is the set of lots held at the end of a day.
type DailySnapshot struct {
	On   date.Date
	Lots []Lot // sorted by symbol, then by opening date.
}

// Quantity returns the total quantity held of symbol.
func (s DailySnapshot) Quantity(symbol string) Quantity {
	var total Quantity
	for _, l := range s.Lots {
		if l.Symbol == symbol {
			total = total.Add(l.Remaining)
		}
	}
	return total
}

// Book is the working set of a reconstruction: every lot still open, indexed by symbol,
// and the sales still to be applied, indexed by day.
//
// A Book is owned by a single reconstruction and mutated day after day.
type Book struct {
	lots  map[string]lots
	sales map[date.Date]map[string]Quantity
}

// StartingBalance returns the Book as it stands at the opening of day start.
//
// Every sale dated before start is matched, FIFO, against the lots bought before start.
// Lots bought on or after start are added untouched, and later sales are kept pending.
func StartingBalance(txs []Transaction, start date.Date) (*Book, Diagnostics) {
	var diags Diagnostics
	b := &Book{
		lots:  make(map[string]lots),
		sales: make(map[date.Date]map[string]Quantity),
	}

	// past sales are netted per symbol, the last sale date is kept for reporting.
	pastSales := make(map[string]Quantity)
	lastSale := make(map[string]date.Date)
	var future []*Lot
	for i, tx := range txs {
		before := tx.On.Before(start)
		switch {
		case tx.Side == Buy && before:
			b.lots[tx.Symbol] = append(b.lots[tx.Symbol], newLot(i, tx))
		case tx.Side == Buy:
			future = append(future, newLot(i, tx))
		case before:
			pastSales[tx.Symbol] = pastSales[tx.Symbol].Add(tx.Quantity)
			if tx.On.After(lastSale[tx.Symbol]) {
				lastSale[tx.Symbol] = tx.On
			}
		default:
			b.addSale(tx.On, tx.Symbol, tx.Quantity)
		}
	}
	for _, l := range b.lots {
		slices.SortStableFunc(l, byOpen)
	}

	for _, symbol := range slices.Sorted(maps.Keys(pastSales)) {
		l := b.lots[symbol]
		if unmatched := l.matchSale(pastSales[symbol], start.Add(-1)); !unmatched.IsZero() {
			diags = append(diags, &ReconciliationError{Symbol: symbol, On: lastSale[symbol], Unmatched: unmatched})
		}
		b.lots[symbol] = l.compact()
	}

	for _, lot := range future {
		b.lots[lot.Symbol] = append(b.lots[lot.Symbol], lot)
	}
	for symbol, l := range b.lots {
		if len(l) == 0 {
			delete(b.lots, symbol)
			continue
		}
		slices.SortStableFunc(l, byOpen)
	}
	return b, diags
}

func newLot(id int, tx Transaction) *Lot {
	return &Lot{ID: id, Open: tx.On, Symbol: tx.Symbol, Remaining: tx.Quantity, CostPerUnit: tx.CostPerUnit}
}

func (b *Book) addSale(on date.Date, symbol string, q Quantity) {
	day, ok := b.sales[on]
	if !ok {
		day = make(map[string]Quantity)
		b.sales[on] = day
	}
	day[symbol] = day[symbol].Add(q)
}

// Sell applies the sales dated 'on' to the lots opened on or before that day.
func (b *Book) Sell(on date.Date) Diagnostics {
	var diags Diagnostics
	day := b.sales[on]
	for _, symbol := range slices.Sorted(maps.Keys(day)) {
		l := b.lots[symbol]
		if unmatched := l.matchSale(day[symbol], on); !unmatched.IsZero() {
			diags = append(diags, &ReconciliationError{Symbol: symbol, On: on, Unmatched: unmatched})
		}
		b.lots[symbol] = l.compact()
	}
	delete(b.sales, on)
	return diags
}

// Snapshot returns a copy of the lots opened on or before 'on'.
func (b *Book) Snapshot(on date.Date) DailySnapshot {
	s := DailySnapshot{On: on}
	for _, symbol := range slices.Sorted(maps.Keys(b.lots)) {
		for _, lot := range b.lots[symbol] {
			if lot.Open.After(on) {
				break
			}
			if lot.Remaining.IsNegligible() {
				continue
			}
			s.Lots = append(s.Lots, *lot)
		}
	}
	return s
}

// Reconstruct returns the lots held at the end of every day of the window.
//
// Sales that cannot be matched are reported in the diagnostics; the lots they would
// have consumed are left at zero and the walk goes on.
func Reconstruct(txs []Transaction, window date.Range) ([]DailySnapshot, Diagnostics, error) {
	if err := window.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidWindow, err)
	}
	book, diags := StartingBalance(txs, window.From)

	snapshots := make([]DailySnapshot, 0, window.Len())
	for day := range window.Days() {
		diags = append(diags, book.Sell(day)...)
		snapshots = append(snapshots, book.Snapshot(day))
	}
	return snapshots, diags, nil
}
