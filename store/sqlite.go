// Package store keeps the brokerage ledger and the daily closes in a SQLite database.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/etnz/cryptofolio"
	"github.com/etnz/cryptofolio/date"
)

// SQLite is a store backed by a single SQLite file.
type SQLite struct {
	db *sql.DB
}

// Open opens or creates the database at path.
func Open(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot create schema in %q: %w", path, err)
	}
	return &SQLite{db: db}, nil
}

// Close closes the database.
func (s *SQLite) Close() error { return s.db.Close() }

// SaveRaw inserts or updates ledger rows. Rows without an ID get a new one, written back
// into rows.
func (s *SQLite) SaveRaw(ctx context.Context, rows []cryptofolio.RawTransaction) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO raw_transactions
		(id, type, on_day, symbol, amount, native_amount, currency, spot_price, fee, trade_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			type=excluded.type, on_day=excluded.on_day, symbol=excluded.symbol,
			amount=excluded.amount, native_amount=excluded.native_amount,
			currency=excluded.currency, spot_price=excluded.spot_price,
			fee=excluded.fee, trade_id=excluded.trade_id`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := range rows {
		r := &rows[i]
		if r.ID == "" {
			r.ID = newID()
		}
		_, err := stmt.ExecContext(ctx,
			r.ID, string(r.Type), r.On.String(), r.Symbol,
			r.Amount.String(), r.NativeAmount.Decimal().String(), r.NativeAmount.Currency(),
			r.SpotPrice.Decimal().String(), r.Fee.Decimal().String(), r.TradeID,
		)
		if err != nil {
			return fmt.Errorf("cannot save row %q: %w", r.ID, err)
		}
	}
	return tx.Commit()
}

// LoadRaw returns all ledger rows by day, then in insertion order.
func (s *SQLite) LoadRaw(ctx context.Context) ([]cryptofolio.RawTransaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, on_day, symbol, amount, native_amount, currency, spot_price, fee, trade_id
		FROM raw_transactions ORDER BY on_day, rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []cryptofolio.RawTransaction
	for rows.Next() {
		var (
			id, typ, on, symbol, amount, native, currency, spot, fee, tradeID string
		)
		if err := rows.Scan(&id, &typ, &on, &symbol, &amount, &native, &currency, &spot, &fee, &tradeID); err != nil {
			return nil, err
		}
		r, err := decodeRow(id, typ, on, symbol, amount, native, currency, spot, fee, tradeID)
		if err != nil {
			return nil, fmt.Errorf("invalid row %q: %w", id, err)
		}
		list = append(list, r)
	}
	return list, rows.Err()
}

func decodeRow(id, typ, on, symbol, amount, native, currency, spot, fee, tradeID string) (cryptofolio.RawTransaction, error) {
	var r cryptofolio.RawTransaction
	var err error
	if r.Type, err = cryptofolio.ParseRawType(typ); err != nil {
		return r, err
	}
	if r.On, err = date.Parse(on); err != nil {
		return r, err
	}
	if r.Amount, err = cryptofolio.ParseQuantity(amount); err != nil {
		return r, err
	}
	money := func(s string) (cryptofolio.Money, error) {
		d, err := decimal.NewFromString(s)
		return cryptofolio.M(d, currency), err
	}
	if r.NativeAmount, err = money(native); err != nil {
		return r, err
	}
	if r.SpotPrice, err = money(spot); err != nil {
		return r, err
	}
	if r.Fee, err = money(fee); err != nil {
		return r, err
	}
	r.ID, r.Symbol, r.TradeID = id, symbol, tradeID
	return r, nil
}

// SaveCloses stores the closes of symbol, replacing existing ones.
func (s *SQLite) SaveCloses(ctx context.Context, symbol string, h *date.History[float64]) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO closes (symbol, on_day, close) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for on, close := range h.Values() {
		if _, err := stmt.ExecContext(ctx, symbol, on.String(), close); err != nil {
			return fmt.Errorf("cannot save %s close on %s: %w", symbol, on, err)
		}
	}
	return tx.Commit()
}

// LoadPrices returns every close in the database.
func (s *SQLite) LoadPrices(ctx context.Context) (cryptofolio.Prices, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT symbol, on_day, close FROM closes`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prices := make(cryptofolio.Prices)
	for rows.Next() {
		var symbol, on string
		var close float64
		if err := rows.Scan(&symbol, &on, &close); err != nil {
			return nil, err
		}
		day, err := date.Parse(on)
		if err != nil {
			return nil, fmt.Errorf("invalid close of %s: %w", symbol, err)
		}
		prices.Set(symbol, day, close)
	}
	return prices, rows.Err()
}
