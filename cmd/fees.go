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

// feesCmd holds the flags for the 'fees' subcommand.
type feesCmd struct {
	live bool
}

func (*feesCmd) Name() string     { return "fees" }
func (*feesCmd) Synopsis() string { return "display fees, ledger totals and balances" }
func (*feesCmd) Usage() string {
	return `cfo fees [-live]

  Displays the total of the fees paid, the amount moved by each type of ledger row,
  and the quantity held per symbol. With -live, balances are valued with live quotes.
`
}

func (c *feesCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.live, "live", false, "value the balances with live quotes")
}

func (c *feesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, ctx, err := newApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	rows, txs, diags, err := a.transactions(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	fees := renderer.Fees{
		Currency: a.cfg.Currency,
		Total:    cryptofolio.TotalFees(txs),
		ByType:   cryptofolio.TotalsByType(rows),
		Balances: cryptofolio.Balances(rows),
	}
	if fees.Total.Currency() == "" {
		fees.Total = cryptofolio.M(0, a.cfg.Currency)
	}

	if c.live {
		quoter, err := a.quoter()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		fees.Values = make(map[string]float64)
		for _, symbol := range cryptofolio.BalanceSymbols(fees.Balances) {
			price, err := quoter.Quote(ctx, symbol)
			if err != nil {
				diags = append(diags, fmt.Errorf("live quote for %s: %w", symbol, err))
				continue
			}
			fees.Values[symbol] = fees.Balances[symbol].Float() * price
		}
	}

	printMarkdown(renderer.FeesMarkdown(fees) + renderer.DiagnosticsMarkdown(diags))
	return subcommands.ExitSuccess
}
