package cryptofolio

import (
	"fmt"

	"github.com/etnz/cryptofolio/date"
)

// Side tells whether a canonical transaction adds to or removes from a position.
type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return fmt.Sprintf("Side(%d)", int(s))
	}
}

// Transaction is a canonical Buy or Sell of a single asset.
//
// Quantity and NativeAmount are always positive. Fee is nil when unknown.
type Transaction struct {
	Side         Side
	On           date.Date
	Symbol       string
	Quantity     Quantity
	CostPerUnit  Money
	NativeAmount Money
	Fee          *Money
	TradeID      string
}

// NewBuy returns a canonical buy of quantity units for amount.
func NewBuy(on date.Date, symbol string, quantity Quantity, amount Money) Transaction {
	return newTransaction(Buy, on, symbol, quantity, amount)
}

// NewSell returns a canonical sell of quantity units for amount.
func NewSell(on date.Date, symbol string, quantity Quantity, amount Money) Transaction {
	return newTransaction(Sell, on, symbol, quantity, amount)
}

func newTransaction(side Side, on date.Date, symbol string, quantity Quantity, amount Money) Transaction {
	tx := Transaction{Side: side, On: on, Symbol: symbol, Quantity: quantity, NativeAmount: amount}
	tx.CostPerUnit = M(0, amount.cur)
	if !quantity.IsZero() {
		tx.CostPerUnit = amount.Div(quantity)
	}
	return tx
}

func (tx Transaction) String() string {
	return fmt.Sprintf("%s %s %s %s @ %s", tx.On, tx.Side, tx.Quantity, tx.Symbol, tx.CostPerUnit)
}
