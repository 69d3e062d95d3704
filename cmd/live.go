package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/google/subcommands"

	"github.com/etnz/cryptofolio"
	"github.com/etnz/cryptofolio/date"
	"github.com/etnz/cryptofolio/renderer"
)

// liveCmd holds the flags for the 'live' subcommand.
type liveCmd struct {
	watch  int
	rebase bool
}

func (*liveCmd) Name() string     { return "live" }
func (*liveCmd) Synopsis() string { return "display the open lots valued at live prices" }
func (*liveCmd) Usage() string {
	return `cfo live [-w <seconds>] [-rebase]

  Displays the lots held after the last day of prices, valued with live quotes.
  With -w the report is refreshed every n seconds.
`
}

func (c *liveCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.watch, "w", 0, "run every n seconds")
	f.BoolVar(&c.rebase, "rebase", false, "rebase every lot to its value at the first date of the report")
}

func (c *liveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, ctx, err := newApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	quoter, err := a.quoter()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	report, err := a.report(ctx, date.Date{}, date.Date{}, c.rebase)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating live report: %v\n", err)
		return subcommands.ExitFailure
	}
	last := report.Table.Last()

	for {
		rows, diags := last.LiveSnapshot(ctx, quoter.QuoteFunc())
		c.render(rows, slices.Concat(report.Diagnostics, diags), a.cfg.Currency)

		if c.watch <= 0 {
			break
		}
		select {
		case <-ctx.Done():
			return subcommands.ExitSuccess
		case <-time.After(time.Duration(c.watch) * time.Second):
		}
	}
	return subcommands.ExitSuccess
}

func (c *liveCmd) render(rows cryptofolio.Table, diags cryptofolio.Diagnostics, currency string) {
	title := fmt.Sprintf("Live at %s", time.Now().Format(time.TimeOnly))
	md := renderer.HoldingMarkdown(title, rows, currency) + renderer.DiagnosticsMarkdown(diags)
	if c.watch > 0 {
		fmt.Println("\033[2J")
	}
	printMarkdown(md)
}
