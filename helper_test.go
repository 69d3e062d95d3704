package cryptofolio

import (
	"github.com/etnz/cryptofolio/date"
)

// day returns the n-th day after 2024-01-01.
func day(n int) date.Date { return date.New(2024, 1, 1).Add(n) }

func window(from, to int) date.Range { return date.Range{From: day(from), To: day(to)} }

func buy(n int, symbol string, quantity, cost float64) Transaction {
	return NewBuy(day(n), symbol, Q(quantity), M(quantity*cost, "EUR"))
}

func sell(n int, symbol string, quantity, price float64) Transaction {
	return NewSell(day(n), symbol, Q(quantity), M(quantity*price, "EUR"))
}

func raw(typ RawType, n int, symbol string, amount, native float64, trade string) RawTransaction {
	return RawTransaction{
		Type:         typ,
		On:           day(n),
		Symbol:       symbol,
		Amount:       Q(amount),
		NativeAmount: M(native, "EUR"),
		TradeID:      trade,
	}
}

// flat returns a price series with the same close on every day of r.
func flat(r date.Range, close float64) *date.History[float64] {
	h := new(date.History[float64])
	for d := range r.Days() {
		h.Append(d, close)
	}
	return h
}
