package cryptofolio

import (
	"slices"

	"github.com/etnz/cryptofolio/date"
)

// Lot is what remains of a single buy of an asset.
type Lot struct {
	ID          int // position of the buy in the transaction list.
	Open        date.Date
	Symbol      string
	Remaining   Quantity
	CostPerUnit Money
}

// CostBasis returns the cost of the remaining units.
func (l Lot) CostBasis() Money { return l.CostPerUnit.Mul(l.Remaining) }

// lots is the FIFO queue of a single symbol, oldest first.
type lots []*Lot

// byOpen orders lots by opening date then by position in the ledger.
func byOpen(a, b *Lot) int {
	if c := a.Open.Compare(b.Open); c != 0 {
		return c
	}
	return a.ID - b.ID
}

// matchSale consumes quantity from the oldest lots opened on or before 'on'.
//
// It only ever reduces lots, a lot within Epsilon of zero is set to exactly zero. It
// returns the quantity that could not be matched, zero when the sale was fully matched.
func (l lots) matchSale(quantity Quantity, on date.Date) (unmatched Quantity) {
	for _, lot := range l {
		if quantity.IsNegligible() {
			break
		}
		if lot.Open.After(on) {
			// lots are sorted, no later lot is eligible.
			break
		}
		if lot.Remaining.IsZero() {
			continue
		}
		take := lot.Remaining.Min(quantity)
		lot.Remaining = lot.Remaining.Sub(take)
		quantity = quantity.Sub(take)
		if lot.Remaining.IsNegligible() {
			lot.Remaining = Quantity{}
		}
	}
	if quantity.IsNegligible() {
		return Quantity{}
	}
	return quantity
}

// compact drops the exhausted lots.
func (l lots) compact() lots {
	return slices.DeleteFunc(l, func(lot *Lot) bool { return lot.Remaining.IsZero() })
}
