package renderer

import (
	"bytes"

	md "github.com/nao1215/markdown"

	"github.com/etnz/cryptofolio"
)

// GroupedMarkdown renders a grouped time series, one line per day.
func GroupedMarkdown(title string, g *cryptofolio.Grouped) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1(title)

	table := md.TableSet{
		Header: append([]string{"Date"}, g.Columns...),
		Rows:   [][]string{},
	}
	for i, on := range g.Dates {
		line := []string{on.String()}
		for _, v := range g.Values[i] {
			line = append(line, number(v))
		}
		table.Rows = append(table.Rows, line)
	}
	doc.Table(table)

	return doc.String()
}
