package cryptofolio

import (
	"testing"
)

func TestStandardize(t *testing.T) {
	fee := RawTransaction{Type: RawBuy, On: day(4), Symbol: "SOL", Amount: Q(2), NativeAmount: M(200, "EUR"), Fee: M(1.5, "EUR")}
	rows := []RawTransaction{
		raw(RawFiatDeposit, 0, "EUR", 2000, 2000, ""),
		raw(RawTrade, 1, "BTC", 0.02, 1000, "t1"),
		raw(RawTrade, 1, "EUR", -1010, -1010, "t1"),
		raw(RawTrade, 2, "ETH", -0.5, -990, "t2"),
		raw(RawTrade, 2, "BTC", 0.0196, 980, "t2"),
		raw(RawTrade, 3, "ADA", 10, 5, "t3"),
		raw(RawTrade, 3, "ADA", 10, 5, "t3"),
		raw(RawTrade, 3, "EUR", -11, -11, "t3"),
		fee,
		raw(RawSend, 5, "BTC", -0.01, -500, ""),
		raw(RawFiatWithdrawal, 6, "EUR", -100, -100, ""),
	}

	txs, diags := Standardize(rows, "EUR")

	type want struct {
		side     Side
		symbol   string
		quantity Quantity
		fee      string // "" when unknown
	}
	wants := []want{
		{Buy, "BTC", Q(0.02), "5"},
		{Sell, "ETH", Q(0.5), "5"},
		{Buy, "BTC", Q(0.0196), "5"},
		{Buy, "ADA", Q(10), ""},
		{Buy, "ADA", Q(10), ""},
		{Buy, "SOL", Q(2), "1.5"},
		{Sell, "BTC", Q(0.01), ""},
	}
	if len(txs) != len(wants) {
		t.Fatalf("Standardize() returned %d transactions, want %d: %v", len(txs), len(wants), txs)
	}
	for i, w := range wants {
		tx := txs[i]
		if tx.Side != w.side || tx.Symbol != w.symbol || !tx.Quantity.Equal(w.quantity) {
			t.Errorf("txs[%d] = %v %v %v, want %v %v %v", i, tx.Side, tx.Quantity, tx.Symbol, w.side, w.quantity, w.symbol)
		}
		if tx.Quantity.IsNegative() || tx.NativeAmount.IsNegative() {
			t.Errorf("txs[%d] = %v, want positive quantity and native amount", i, tx)
		}
		switch {
		case w.fee == "" && tx.Fee != nil:
			t.Errorf("txs[%d].Fee = %v, want unknown", i, *tx.Fee)
		case w.fee != "" && tx.Fee == nil:
			t.Errorf("txs[%d].Fee unknown, want %s", i, w.fee)
		case w.fee != "" && tx.Fee.Decimal().String() != w.fee:
			t.Errorf("txs[%d].Fee = %s, want %s", i, tx.Fee.Decimal(), w.fee)
		}
	}

	errs := diags.Standardizations()
	if len(errs) != 1 || errs[0].TradeID != "t3" || errs[0].Legs != 3 {
		t.Errorf("Standardizations() = %v, want trade t3 with 3 legs", diags)
	}
}

func TestStandardize_CostPerUnit(t *testing.T) {
	withSpot := raw(RawBuy, 0, "BTC", 0.1, 4050, "")
	withSpot.SpotPrice = M(40000, "EUR")
	rows := []RawTransaction{
		withSpot,
		raw(RawTrade, 1, "ETH", 2, 4000, ""),
	}
	txs, _ := Standardize(rows, "EUR")

	if got, want := txs[0].CostPerUnit, M(40000, "EUR"); !got.Equal(want) {
		t.Errorf("CostPerUnit with a spot price = %v, want %v", got, want)
	}
	if got, want := txs[1].CostPerUnit, M(2000, "EUR"); !got.Equal(want) {
		t.Errorf("CostPerUnit without a spot price = %v, want %v", got, want)
	}
}

func TestStandardize_ZeroLegIsDropped(t *testing.T) {
	rows := []RawTransaction{raw(RawSend, 0, "BTC", 0, 0, "")}
	if txs, _ := Standardize(rows, "EUR"); len(txs) != 0 {
		t.Errorf("Standardize() = %v, want no transaction", txs)
	}
}

func TestStandardize_MixedCurrencyTrade(t *testing.T) {
	usd := raw(RawTrade, 0, "ETH", -1, -3300, "t1")
	usd.NativeAmount = M(-3300, "USD")
	rows := []RawTransaction{
		raw(RawTrade, 0, "BTC", 0.05, 3000, "t1"),
		usd,
	}

	txs, diags := Standardize(rows, "EUR")
	if len(txs) != 2 {
		t.Fatalf("Standardize() = %v, want both legs", txs)
	}
	for i, tx := range txs {
		if tx.Fee != nil {
			t.Errorf("txs[%d].Fee = %v, want unknown", i, *tx.Fee)
		}
	}
	errs := diags.Standardizations()
	if len(errs) != 1 || errs[0].TradeID != "t1" || len(errs[0].Currencies) != 2 {
		t.Errorf("Standardizations() = %v, want trade t1 mixing two currencies", diags)
	}
}
