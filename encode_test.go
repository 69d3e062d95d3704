package cryptofolio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/etnz/cryptofolio/date"
)

func TestDecodeRawTransactions(t *testing.T) {
	input := `{"id":"a1","type":"buy","datetime":"2024-03-01T23:30:00Z","symbol":"BTC","amount":"0.1","native_amount":"4000.00","nat_symbol":"EUR","total_fee":"1.99"}

{"id":"a2","type":"trade","datetime":"2024-03-02","symbol":"ETH","amount":-0.5,"native_amount":-1500,"nat_symbol":"EUR","trade_id":"x"}
`
	rows, err := DecodeRawTransactions(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeRawTransactions() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("DecodeRawTransactions() = %d rows, want 2", len(rows))
	}
	r := rows[0]
	if r.Type != RawBuy || r.On != date.New(2024, 3, 1) || !r.Amount.Equal(Q(0.1)) {
		t.Errorf("rows[0] = %+v, want a buy of 0.1 BTC on 2024-03-01", r)
	}
	if got, want := r.Fee, M(1.99, "EUR"); !got.Equal(want) {
		t.Errorf("rows[0].Fee = %v, want %v", got, want)
	}
	if !rows[1].Amount.IsNegative() || rows[1].TradeID != "x" {
		t.Errorf("rows[1] = %+v, want a negative trade leg of trade x", rows[1])
	}
}

func TestDecodeRawTransactions_Error(t *testing.T) {
	input := `{"type":"buy","datetime":"2024-03-01","symbol":"BTC","amount":1,"native_amount":1,"nat_symbol":"EUR"}
{"type":"stake","datetime":"2024-03-01","symbol":"BTC","amount":1,"native_amount":1,"nat_symbol":"EUR"}
`
	_, err := DecodeRawTransactions(strings.NewReader(input))
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("DecodeRawTransactions() error = %v, want an error on line 2", err)
	}
}

func TestEncodeRawTransactions(t *testing.T) {
	spot := raw(RawBuy, 0, "BTC", 0.1, 4000, "")
	spot.ID = "b1"
	spot.SpotPrice = M(39900, "EUR")
	spot.Fee = M(10, "EUR")
	rows := []RawTransaction{spot, raw(RawTrade, 1, "ETH", -1, -2000, "t")}

	var buf bytes.Buffer
	if err := EncodeRawTransactions(&buf, rows); err != nil {
		t.Fatalf("EncodeRawTransactions() error = %v", err)
	}
	first, _, _ := strings.Cut(buf.String(), "\n")
	want := `{"id":"b1","type":"buy","datetime":"2024-01-01","symbol":"BTC","amount":0.1,"native_amount":4000,"nat_symbol":"EUR","spot_price":39900,"total_fee":10}`
	if first != want {
		t.Errorf("encoded row = %s\nwant %s", first, want)
	}

	got, err := DecodeRawTransactions(&buf)
	if err != nil {
		t.Fatalf("DecodeRawTransactions() error = %v", err)
	}
	for i := range rows {
		a, b := rows[i], got[i]
		if a.ID != b.ID || a.Type != b.Type || a.On != b.On || a.Symbol != b.Symbol || a.TradeID != b.TradeID ||
			!a.Amount.Equal(b.Amount) || !a.NativeAmount.Equal(b.NativeAmount) ||
			!a.SpotPrice.Equal(b.SpotPrice) || !a.Fee.Equal(b.Fee) {
			t.Errorf("decoded row %d = %+v, want %+v", i, b, a)
		}
	}
}
