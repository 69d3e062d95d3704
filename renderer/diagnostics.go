package renderer

import (
	"bytes"

	md "github.com/nao1215/markdown"

	"github.com/etnz/cryptofolio"
)

// DiagnosticsMarkdown renders the caveats of a report, an empty string when there are none.
func DiagnosticsMarkdown(d cryptofolio.Diagnostics) string {
	if len(d) == 0 {
		return ""
	}
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H2("Warnings")

	items := make([]string, 0, len(d))
	for _, err := range d {
		items = append(items, err.Error())
	}
	doc.BulletList(items...)

	return doc.String()
}
