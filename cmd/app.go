// Package cmd implements the CLI application to track a crypto portfolio.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"slices"

	"github.com/google/subcommands"
	"github.com/rs/zerolog"

	"github.com/etnz/cryptofolio"
	"github.com/etnz/cryptofolio/date"
	"github.com/etnz/cryptofolio/internal/logger"
	"github.com/etnz/cryptofolio/market"
	"github.com/etnz/cryptofolio/quote"
	"github.com/etnz/cryptofolio/store"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&holdingCmd{}, "reports")
	c.Register(&historyCmd{}, "reports")
	c.Register(&liveCmd{}, "reports")
	c.Register(&feesCmd{}, "reports")

	c.Register(&standardizeCmd{}, "ledger")
	c.Register(&importTransactionsCmd{}, "ledger")
	c.Register(&importPricesCmd{}, "market")

	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.
// Global flags override the configuration file.

var configFile = flag.String("config", "cryptofolio.yaml", "Path to the configuration file (YAML or JSON)")
var transactionsFile = flag.String("transactions", "", "Path to the brokerage ledger (JSONL format)")
var databaseFile = flag.String("db", "", "Path to the SQLite database, used instead of the ledger file when set")
var marketFolder = flag.String("market", "", "Path to the folder of daily close prices")
var currency = flag.String("currency", "", "Reporting currency")
var benchmark = flag.String("benchmark", "", "Symbol to compare every lot with")
var logLevel = flag.String("log-level", "", "Log level (debug, info, warn, error)")

// app is the environment of a command execution.
type app struct {
	cfg *Config
	log zerolog.Logger
}

// newApp loads the configuration and applies the global flags. It returns ctx with the
// application logger.
func newApp(ctx context.Context) (*app, context.Context, error) {
	cfg, err := LoadConfig(*configFile)
	if errors.Is(err, fs.ErrNotExist) && !isFlagSet("config") {
		cfg, err = DefaultConfig(), nil
	}
	if err != nil {
		return nil, ctx, err
	}

	override := func(dst *string, value string) {
		if value != "" {
			*dst = value
		}
	}
	override(&cfg.Transactions, *transactionsFile)
	override(&cfg.Database, *databaseFile)
	override(&cfg.Market, *marketFolder)
	override(&cfg.Currency, *currency)
	override(&cfg.Benchmark, *benchmark)
	override(&cfg.LogLevel, *logLevel)
	if err := cfg.Validate(); err != nil {
		return nil, ctx, err
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, ctx, fmt.Errorf("invalid log level: %w", err)
	}
	log := logger.New(level)
	return &app{cfg: cfg, log: log}, logger.WithContext(ctx, log), nil
}

func isFlagSet(name string) (set bool) {
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return
}

// ledger returns the brokerage rows, from the database if configured.
func (a *app) ledger(ctx context.Context) ([]cryptofolio.RawTransaction, error) {
	if a.cfg.Database != "" {
		db, err := store.Open(a.cfg.Database)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		rows, err := db.LoadRaw(ctx)
		if err != nil {
			return nil, fmt.Errorf("cannot load ledger from %q: %w", a.cfg.Database, err)
		}
		a.log.Debug().Str("db", a.cfg.Database).Int("rows", len(rows)).Msg("ledger loaded")
		return rows, nil
	}

	f, err := os.Open(a.cfg.Transactions)
	if err != nil {
		return nil, fmt.Errorf("cannot open ledger: %w", err)
	}
	defer f.Close()
	rows, err := cryptofolio.DecodeRawTransactions(f)
	if err != nil {
		return nil, fmt.Errorf("cannot read ledger %q: %w", a.cfg.Transactions, err)
	}
	a.log.Debug().Str("file", a.cfg.Transactions).Int("rows", len(rows)).Msg("ledger loaded")
	return rows, nil
}

// prices returns the closes of the market folder, completed by the database if configured.
func (a *app) prices(ctx context.Context) (cryptofolio.Prices, error) {
	prices, err := market.Decode(a.cfg.Market)
	if err != nil {
		return nil, err
	}
	if a.cfg.Database != "" {
		db, err := store.Open(a.cfg.Database)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		stored, err := db.LoadPrices(ctx)
		if err != nil {
			return nil, fmt.Errorf("cannot load prices from %q: %w", a.cfg.Database, err)
		}
		for symbol, h := range stored {
			for on, close := range h.Values() {
				prices.Set(symbol, on, close)
			}
		}
	}
	a.log.Debug().Strs("symbols", slices.Sorted(maps.Keys(prices))).Msg("prices loaded")
	return prices, nil
}

// transactions returns the canonical transactions and the standardization diagnostics.
func (a *app) transactions(ctx context.Context) ([]cryptofolio.RawTransaction, []cryptofolio.Transaction, cryptofolio.Diagnostics, error) {
	rows, err := a.ledger(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	txs, diags := cryptofolio.Standardize(rows, a.cfg.Currency)
	return rows, txs, diags, nil
}

// report runs the tracker over the window [start, end]. A zero start is the first
// transaction, a zero end is yesterday.
func (a *app) report(ctx context.Context, start, end date.Date, rebase bool) (*cryptofolio.Report, error) {
	_, txs, diags, err := a.transactions(ctx)
	if err != nil {
		return nil, err
	}
	prices, err := a.prices(ctx)
	if err != nil {
		return nil, err
	}

	window, err := cryptofolio.DefaultWindow(txs, date.Today())
	if err != nil {
		return nil, err
	}
	if !start.IsZero() {
		window.From = start
	}
	if !end.IsZero() {
		window.To = end
	}

	opts := []cryptofolio.Option{cryptofolio.WithLogger(a.log)}
	if a.cfg.Benchmark != "" {
		opts = append(opts, cryptofolio.WithBenchmark(a.cfg.Benchmark))
	}
	if rebase || a.cfg.RebaseAtStart {
		opts = append(opts, cryptofolio.WithRebaseAtStart())
	}
	report, err := cryptofolio.NewTracker(txs, prices, opts...).Run(window)
	if err != nil {
		return nil, err
	}
	report.Diagnostics = append(diags, report.Diagnostics...)
	return report, nil
}

// quoter returns the live quote client of the configuration.
func (a *app) quoter() (*quote.Client, error) {
	ttl, err := a.cfg.Quote.CacheTTL()
	if err != nil {
		return nil, err
	}
	opts := []quote.Option{quote.WithFiat(a.cfg.Currency)}
	if a.cfg.Quote.URL != "" {
		opts = append(opts, quote.WithURL(a.cfg.Quote.URL))
	}
	if a.cfg.Quote.Path != "" {
		opts = append(opts, quote.WithPath(a.cfg.Quote.Path))
	}
	if ttl > 0 {
		opts = append(opts, quote.WithTTL(ttl))
	}
	if a.cfg.Quote.RatePerSecond > 0 {
		opts = append(opts, quote.WithRate(a.cfg.Quote.RatePerSecond))
	}
	return quote.New(opts...), nil
}

// parseDate parses an optional date flag.
func parseDate(s string) (date.Date, error) {
	if s == "" {
		return date.Date{}, nil
	}
	return date.Parse(s)
}
