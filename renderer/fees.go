package renderer

import (
	"bytes"
	"maps"
	"slices"

	md "github.com/nao1215/markdown"

	"github.com/etnz/cryptofolio"
)

// Fees is the content of the fees report.
type Fees struct {
	Currency string
	Total    cryptofolio.Money
	ByType   map[cryptofolio.RawType]cryptofolio.Money
	Balances map[string]cryptofolio.Quantity
	Values   map[string]float64 // live value of each balance, missing when unknown.
}

// FeesMarkdown renders fees, ledger totals and balances.
func FeesMarkdown(f Fees) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Fees")
	doc.PlainText("Total fees paid: " + md.Bold(f.Total.String()))

	doc.H2("Totals by Type")
	totals := md.TableSet{Header: []string{"Type", "Amount"}, Rows: [][]string{}}
	for _, typ := range slices.Sorted(maps.Keys(f.ByType)) {
		totals.Rows = append(totals.Rows, []string{string(typ), f.ByType[typ].String()})
	}
	doc.Table(totals)

	doc.H2("Balances")
	balances := md.TableSet{Header: []string{"Symbol", "Quantity", "Value"}, Rows: [][]string{}}
	var total float64
	for _, symbol := range cryptofolio.BalanceSymbols(f.Balances) {
		value := ""
		if v, ok := f.Values[symbol]; ok {
			value = money(v, f.Currency)
			total += v
		}
		balances.Rows = append(balances.Rows, []string{symbol, f.Balances[symbol].String(), value})
	}
	if len(f.Values) > 0 {
		balances.Rows = append(balances.Rows, []string{md.Bold("Total"), "", money(total, f.Currency)})
	}
	doc.Table(balances)

	return doc.String()
}
