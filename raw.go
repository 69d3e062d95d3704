package cryptofolio

import (
	"encoding/json"
	"fmt"

	"github.com/etnz/cryptofolio/date"
)

// RawType is the brokerage's own vocabulary for a ledger row.
type RawType string

const (
	RawBuy            RawType = "buy"
	RawSell           RawType = "sell"
	RawTrade          RawType = "trade"
	RawSend           RawType = "send"
	RawFiatDeposit    RawType = "fiat_deposit"
	RawFiatWithdrawal RawType = "fiat_withdrawal"
)

// ParseRawType validates a raw type name.
func ParseRawType(s string) (RawType, error) {
	switch t := RawType(s); t {
	case RawBuy, RawSell, RawTrade, RawSend, RawFiatDeposit, RawFiatWithdrawal:
		return t, nil
	default:
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
}

// isPosition reports whether rows of this type move an asset position.
func (t RawType) isPosition() bool {
	switch t {
	case RawBuy, RawSell, RawTrade, RawSend:
		return true
	}
	return false
}

// RawTransaction is a ledger row as the brokerage reports it.
//
// Amounts are signed from the account's point of view: a trade leg that removes coins from
// the account has a negative Amount.
type RawTransaction struct {
	ID           string
	Type         RawType
	On           date.Date
	Symbol       string
	Amount       Quantity
	NativeAmount Money
	SpotPrice    Money // unit price the brokerage applied, zero when unknown.
	Fee          Money // fee the brokerage reported, zero when none.
	TradeID      string
}

// rawJSON is the on-disk shape of a RawTransaction, amounts are plain decimals and the
// native currency is a separate field as in the Coinbase exports.
type rawJSON struct {
	ID           string    `json:"id,omitempty"`
	Type         string    `json:"type"`
	On           date.Date `json:"datetime"`
	Symbol       string    `json:"symbol"`
	Amount       Quantity  `json:"amount"`
	NativeAmount Quantity  `json:"native_amount"`
	NativeSymbol string    `json:"nat_symbol"`
	SpotPrice    *Quantity `json:"spot_price,omitempty"`
	TotalFee     *Quantity `json:"total_fee,omitempty"`
	TradeID      string    `json:"trade_id,omitempty"`
}

func (r RawTransaction) MarshalJSON() ([]byte, error) {
	j := rawJSON{
		ID:           r.ID,
		Type:         string(r.Type),
		On:           r.On,
		Symbol:       r.Symbol,
		Amount:       r.Amount,
		NativeAmount: Quantity{value: r.NativeAmount.value},
		NativeSymbol: r.NativeAmount.cur,
		TradeID:      r.TradeID,
	}
	if !r.SpotPrice.IsZero() {
		j.SpotPrice = &Quantity{value: r.SpotPrice.value}
	}
	if !r.Fee.IsZero() {
		j.TotalFee = &Quantity{value: r.Fee.value}
	}
	return json.Marshal(j)
}

func (r *RawTransaction) UnmarshalJSON(b []byte) error {
	var j rawJSON
	if err := json.Unmarshal(b, &j); err != nil {
		return err
	}
	t, err := ParseRawType(j.Type)
	if err != nil {
		return err
	}
	*r = RawTransaction{
		ID:           j.ID,
		Type:         t,
		On:           j.On,
		Symbol:       j.Symbol,
		Amount:       j.Amount,
		NativeAmount: M(j.NativeAmount.value, j.NativeSymbol),
		TradeID:      j.TradeID,
	}
	if j.SpotPrice != nil {
		r.SpotPrice = M(j.SpotPrice.value, j.NativeSymbol)
	}
	if j.TotalFee != nil {
		r.Fee = M(j.TotalFee.value, j.NativeSymbol)
	}
	return nil
}
