package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/etnz/cryptofolio/date"
	"github.com/etnz/cryptofolio/renderer"
)

// holdingCmd holds the flags for the 'holding' subcommand.
type holdingCmd struct {
	date   string
	rebase bool
}

func (*holdingCmd) Name() string     { return "holding" }
func (*holdingCmd) Synopsis() string { return "display the open lots on a specific date" }
func (*holdingCmd) Usage() string {
	return `cfo holding [-d <date>] [-rebase]

  Displays the open lots held on a given date, with their cost basis, market value and
  return. When a benchmark is configured, each lot is compared with it.
  The default date is the last day with prices (yesterday).
`
}

func (c *holdingCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date for the holding report, defaults to the last day of the report")
	f.BoolVar(&c.rebase, "rebase", false, "rebase every lot to its value at the first date of the report")
}

func (c *holdingCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := parseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	a, ctx, err := newApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	report, err := a.report(ctx, date.Date{}, on, c.rebase)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating holding report: %v\n", err)
		return subcommands.ExitFailure
	}

	rows := report.Table.SnapshotAt(report.Window.To)
	title := fmt.Sprintf("Holding on %s", report.Window.To)
	printMarkdown(renderer.HoldingMarkdown(title, rows, a.cfg.Currency) + renderer.DiagnosticsMarkdown(report.Diagnostics))
	return subcommands.ExitSuccess
}
