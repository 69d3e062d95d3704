package cryptofolio

import (
	"maps"
	"slices"
)

// TotalFees returns the sum of the known fees, in the currency of the first one.
func TotalFees(txs []Transaction) Money {
	var total Money
	for _, tx := range txs {
		if tx.Fee != nil {
			total = total.Add(*tx.Fee)
		}
	}
	return total
}

// TotalsByType returns the absolute native amount moved by each type of ledger row.
func TotalsByType(rows []RawTransaction) map[RawType]Money {
	totals := make(map[RawType]Money)
	for _, r := range rows {
		totals[r.Type] = totals[r.Type].Add(r.NativeAmount.Abs())
	}
	return totals
}

// Balances returns the net quantity held per symbol according to the ledger.
//
// Fiat movements are ignored, negligible balances are left out.
func Balances(rows []RawTransaction) map[string]Quantity {
	balances := make(map[string]Quantity)
	for _, r := range rows {
		if !r.Type.isPosition() {
			continue
		}
		amount := r.Amount
		switch r.Type {
		case RawBuy:
			amount = amount.Abs()
		case RawSell:
			amount = amount.Abs().Neg()
		}
		balances[r.Symbol] = balances[r.Symbol].Add(amount)
	}
	maps.DeleteFunc(balances, func(_ string, q Quantity) bool { return q.IsNegligible() })
	return balances
}

// BalanceSymbols returns the symbols of balances, sorted.
func BalanceSymbols(balances map[string]Quantity) []string {
	return slices.Sorted(maps.Keys(balances))
}
