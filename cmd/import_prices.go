package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/rs/zerolog"

	"github.com/etnz/cryptofolio"
	"github.com/etnz/cryptofolio/market"
	"github.com/etnz/cryptofolio/store"
)

// importPricesCmd holds the flags for the 'import-prices' subcommand.
type importPricesCmd struct {
	symbol string
}

func (*importPricesCmd) Name() string     { return "import-prices" }
func (*importPricesCmd) Synopsis() string { return "import daily close prices from a CSV file" }
func (*importPricesCmd) Usage() string {
	return `cfo import-prices -symbol <symbol> <prices.csv>

  Reads a CSV file with a Date and a Close column and merges the closes of the symbol
  into the market folder, and into the database when one is configured.
`
}

func (c *importPricesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "symbol", "", "symbol of the imported prices")
}

func (c *importPricesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" || f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expecting -symbol and exactly one CSV file")
		return subcommands.ExitUsageError
	}
	a, ctx, err := newApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	n, err := importPrices(ctx, a.cfg.Market, a.cfg.Database, c.symbol, f.Arg(0), a.log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error importing prices: %v\n", err)
		return subcommands.ExitFailure
	}
	a.log.Info().Int("closes", n).Str("symbol", c.symbol).Msg("prices imported")
	return subcommands.ExitSuccess
}

// importPrices merges the closes of the CSV file into the market folder, and into the
// database unless it is empty. It returns the number of closes read.
func importPrices(ctx context.Context, folder, database, symbol, filename string, log zerolog.Logger) (int, error) {
	in, err := os.Open(filename)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	prices, err := market.Decode(folder)
	if err != nil {
		return 0, err
	}
	imported := make(cryptofolio.Prices)
	n, err := market.ImportCSV(in, symbol, imported)
	if err != nil {
		return 0, fmt.Errorf("cannot read %q: %w", filename, err)
	}
	for on, close := range imported[symbol].Values() {
		prices.Set(symbol, on, close)
	}
	if err := market.Encode(folder, prices, log); err != nil {
		return 0, err
	}

	if database != "" && n > 0 {
		db, err := store.Open(database)
		if err != nil {
			return 0, err
		}
		defer db.Close()
		if err := db.SaveCloses(ctx, symbol, imported[symbol]); err != nil {
			return 0, err
		}
	}
	return n, nil
}
