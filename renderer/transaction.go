package renderer

import (
	"bytes"

	md "github.com/nao1215/markdown"

	"github.com/etnz/cryptofolio"
)

// TransactionsMarkdown renders canonical transactions in ledger order.
func TransactionsMarkdown(txs []cryptofolio.Transaction) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Transactions")

	table := md.TableSet{
		Header: []string{"Date", "Side", "Symbol", "Quantity", "Unit Cost", "Amount", "Fee", "Trade"},
		Rows:   [][]string{},
	}
	for _, tx := range txs {
		fee := "?"
		if tx.Fee != nil {
			fee = tx.Fee.String()
		}
		table.Rows = append(table.Rows, []string{
			tx.On.String(),
			tx.Side.String(),
			tx.Symbol,
			tx.Quantity.String(),
			tx.CostPerUnit.String(),
			tx.NativeAmount.String(),
			fee,
			tx.TradeID,
		})
	}
	doc.Table(table)

	return doc.String()
}
