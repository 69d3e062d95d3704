package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/etnz/cryptofolio"
	"github.com/etnz/cryptofolio/store"
)

// importTransactionsCmd holds the flags for the 'import-transactions' subcommand.
type importTransactionsCmd struct{}

func (*importTransactionsCmd) Name() string { return "import-transactions" }
func (*importTransactionsCmd) Synopsis() string {
	return "import a JSONL brokerage ledger into the database"
}
func (*importTransactionsCmd) Usage() string {
	return `cfo -db <file> import-transactions <ledger.jsonl>

  Reads a brokerage ledger and saves its rows into the SQLite database.
  Rows already present (same id) are replaced.
`
}

func (c *importTransactionsCmd) SetFlags(f *flag.FlagSet) {}

func (c *importTransactionsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expecting exactly one ledger file")
		return subcommands.ExitUsageError
	}
	a, ctx, err := newApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if a.cfg.Database == "" {
		fmt.Fprintln(os.Stderr, "Error: no database configured, use -db")
		return subcommands.ExitUsageError
	}

	n, err := importTransactions(ctx, a.cfg.Database, f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error importing transactions: %v\n", err)
		return subcommands.ExitFailure
	}
	a.log.Info().Int("rows", n).Str("db", a.cfg.Database).Msg("transactions imported")
	return subcommands.ExitSuccess
}

// importTransactions saves the rows of the JSONL ledger into the database and returns their count.
func importTransactions(ctx context.Context, database, filename string) (int, error) {
	in, err := os.Open(filename)
	if err != nil {
		return 0, err
	}
	defer in.Close()
	rows, err := cryptofolio.DecodeRawTransactions(in)
	if err != nil {
		return 0, fmt.Errorf("cannot read %q: %w", filename, err)
	}

	db, err := store.Open(database)
	if err != nil {
		return 0, err
	}
	defer db.Close()
	if err := db.SaveRaw(ctx, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}
