package renderer

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"

	"github.com/etnz/cryptofolio"
)

// HoldingMarkdown renders the lots of a single day with their value and returns.
func HoldingMarkdown(title string, rows cryptofolio.Table, currency string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(title)

	if len(rows) == 0 {
		doc.PlainText("No position held.")
		return doc.String()
	}

	benchmark := ""
	for _, r := range rows {
		if r.Benchmark != "" {
			benchmark = r.Benchmark
			break
		}
	}

	header := []string{"Symbol", "Opened", "Quantity", "Cost Basis", "Value", "Gain / Loss", "Return"}
	if benchmark != "" {
		header = append(header, benchmark, "Excess")
	}
	table := md.TableSet{Header: header}

	var cost, value, gain, benchValue float64
	for _, r := range rows {
		line := []string{
			r.Symbol,
			r.Open.String(),
			fmt.Sprintf("%.8g", r.Quantity),
			money(r.CostBasis, currency),
			"",
			"",
			"",
		}
		cost += r.CostBasis
		if r.Priced {
			line[4] = money(r.MarketValue, currency)
			line[5] = money(r.GainLoss, currency)
			line[6] = percent(r.AssetReturn)
			value += r.MarketValue
			gain += r.GainLoss
		}
		if benchmark != "" {
			line = append(line, percent(r.BenchmarkReturn), percent(r.ExcessReturn))
			benchValue += r.BenchmarkValue
		}
		table.Rows = append(table.Rows, line)
	}

	total := []string{md.Bold("Total"), "", "", money(cost, currency), money(value, currency), money(gain, currency), ""}
	if cost != 0 {
		total[6] = percent(value/cost - 1)
	}
	if benchmark != "" {
		total = append(total, money(benchValue, currency), "")
	}
	table.Rows = append(table.Rows, total)
	doc.Table(table)

	return doc.String()
}
