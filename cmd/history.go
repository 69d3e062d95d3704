package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/etnz/cryptofolio"
	"github.com/etnz/cryptofolio/renderer"
)

// historyCmd holds the flags for the 'history' subcommand.
type historyCmd struct {
	start    string
	end      string
	columns  string
	bySymbol bool
	rebase   bool
}

func (*historyCmd) Name() string { return "history" }
func (*historyCmd) Synopsis() string {
	return "display daily portfolio metrics over a period"
}
func (*historyCmd) Usage() string {
	return `cfo history [-start <date>] [-end <date>] [-columns <list>] [-by-symbol] [-rebase]

  Displays one line per day with the selected metrics summed over all lots,
  or per symbol with -by-symbol.

  Columns: quantity, cost_basis, market_value, gain_loss, asset_return,
  benchmark_value, benchmark_gain_loss, benchmark_return, excess_return.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.start, "start", "", "first day of the history, defaults to the first transaction")
	f.StringVar(&c.end, "end", "", "last day of the history, defaults to yesterday")
	f.StringVar(&c.columns, "columns", "market_value,gain_loss", "comma separated list of columns")
	f.BoolVar(&c.bySymbol, "by-symbol", false, "one column per symbol and metric")
	f.BoolVar(&c.rebase, "rebase", false, "rebase every lot to its value at the start date")
}

func (c *historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	start, err := parseDate(c.start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing start date: %v\n", err)
		return subcommands.ExitUsageError
	}
	end, err := parseDate(c.end)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing end date: %v\n", err)
		return subcommands.ExitUsageError
	}
	columns, err := cryptofolio.ParseColumns(c.columns)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	a, ctx, err := newApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	report, err := a.report(ctx, start, end, c.rebase)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating history: %v\n", err)
		return subcommands.ExitFailure
	}
	grouped, err := report.Table.DailyGroupedMetrics(report.Window, columns, c.bySymbol)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error grouping metrics: %v\n", err)
		return subcommands.ExitFailure
	}

	title := fmt.Sprintf("History %s", report.Window)
	printMarkdown(renderer.GroupedMarkdown(title, grouped) + renderer.DiagnosticsMarkdown(report.Diagnostics))
	return subcommands.ExitSuccess
}
