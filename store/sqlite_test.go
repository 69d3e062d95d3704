package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etnz/cryptofolio"
	"github.com/etnz/cryptofolio/date"
)

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func TestSchemaCreated(t *testing.T) {
	t.Parallel()
	_, path := newTestSQLite(t)

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name IN ('raw_transactions','closes')`)
	require.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	require.NoError(t, rows.Err())
	assert.True(t, found["raw_transactions"])
	assert.True(t, found["closes"])
}

func TestSaveLoadRaw(t *testing.T) {
	t.Parallel()
	s, _ := newTestSQLite(t)
	ctx := context.Background()

	rows := []cryptofolio.RawTransaction{
		{
			ID: "cb-1", Type: cryptofolio.RawBuy, On: date.New(2024, 1, 2), Symbol: "BTC",
			Amount: cryptofolio.Q(0.0123), NativeAmount: cryptofolio.M(500, "EUR"),
			SpotPrice: cryptofolio.M(40000, "EUR"), Fee: cryptofolio.M(7.99, "EUR"),
		},
		{
			Type: cryptofolio.RawTrade, On: date.New(2024, 1, 1), Symbol: "ETH",
			Amount: cryptofolio.Q(-0.5), NativeAmount: cryptofolio.M(-1000, "EUR"), TradeID: "t1",
		},
		{
			Type: cryptofolio.RawTrade, On: date.New(2024, 1, 1), Symbol: "BTC",
			Amount: cryptofolio.Q(0.024), NativeAmount: cryptofolio.M(990, "EUR"), TradeID: "t1",
		},
	}
	require.NoError(t, s.SaveRaw(ctx, rows))
	assert.Equal(t, "cb-1", rows[0].ID)
	assert.NotEmpty(t, rows[1].ID)
	assert.NotEqual(t, rows[1].ID, rows[2].ID)

	got, err := s.LoadRaw(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)

	// by day, then in insertion order.
	assert.Equal(t, []string{rows[1].ID, rows[2].ID, "cb-1"}, []string{got[0].ID, got[1].ID, got[2].ID})

	b := got[2]
	assert.Equal(t, cryptofolio.RawBuy, b.Type)
	assert.Equal(t, date.New(2024, 1, 2), b.On)
	assert.True(t, b.Amount.Equal(cryptofolio.Q(0.0123)), "amount = %s", b.Amount)
	assert.True(t, b.NativeAmount.Equal(cryptofolio.M(500, "EUR")), "native amount = %s", b.NativeAmount)
	assert.True(t, b.SpotPrice.Equal(cryptofolio.M(40000, "EUR")), "spot price = %s", b.SpotPrice)
	assert.True(t, b.Fee.Equal(cryptofolio.M(7.99, "EUR")), "fee = %s", b.Fee)
	assert.True(t, got[0].Amount.IsNegative())
	assert.True(t, got[0].Fee.IsZero())
	assert.Equal(t, "t1", got[0].TradeID)

	// saving again updates in place.
	rows[0].Symbol = "ETH"
	require.NoError(t, s.SaveRaw(ctx, rows[:1]))
	got, err = s.LoadRaw(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "ETH", got[2].Symbol)
}

func TestSaveLoadCloses(t *testing.T) {
	t.Parallel()
	s, _ := newTestSQLite(t)
	ctx := context.Background()

	h := new(date.History[float64])
	h.Append(date.New(2024, 1, 1), 42000)
	h.Append(date.New(2024, 1, 2), 42500.5)
	require.NoError(t, s.SaveCloses(ctx, "BTC", h))

	h.Append(date.New(2024, 1, 2), 43000)
	require.NoError(t, s.SaveCloses(ctx, "BTC", h))

	prices, err := s.LoadPrices(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, prices["BTC"].Len())
	v, ok := prices.Price("BTC", date.New(2024, 1, 2))
	assert.True(t, ok)
	assert.Equal(t, 43000.0, v)
}

func TestNewID(t *testing.T) {
	t.Parallel()
	a, b := newID(), newID()
	assert.Len(t, a, 26)
	assert.Less(t, a, b)
}
