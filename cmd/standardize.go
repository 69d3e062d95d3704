package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/etnz/cryptofolio/renderer"
)

// standardizeCmd holds the flags for the 'standardize' subcommand.
type standardizeCmd struct {
	strict bool
}

func (*standardizeCmd) Name() string { return "standardize" }
func (*standardizeCmd) Synopsis() string {
	return "display the ledger as canonical buy and sell transactions"
}
func (*standardizeCmd) Usage() string {
	return `cfo standardize [-strict]

  Converts the brokerage ledger into buy and sell transactions, one per crypto leg,
  and lists them in ledger order. Rows that cannot be converted are reported as warnings.
`
}

func (c *standardizeCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.strict, "strict", false, "fail when a row cannot be converted")
}

func (c *standardizeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, ctx, err := newApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	_, txs, diags, err := a.transactions(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.TransactionsMarkdown(txs) + renderer.DiagnosticsMarkdown(diags))
	if c.strict && len(diags) > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
