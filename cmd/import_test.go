package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etnz/cryptofolio/date"
	"github.com/etnz/cryptofolio/market"
	"github.com/etnz/cryptofolio/store"
)

func TestImportTransactions(t *testing.T) {
	dir := t.TempDir()
	ledger := filepath.Join(dir, "ledger.jsonl")
	content := `{"id":"a1","type":"buy","datetime":"2024-03-01","symbol":"BTC","amount":"0.1","native_amount":"4000","nat_symbol":"EUR","total_fee":"2"}
{"id":"a2","type":"sell","datetime":"2024-03-05","symbol":"BTC","amount":"-0.05","native_amount":"-2100","nat_symbol":"EUR"}
`
	require.NoError(t, os.WriteFile(ledger, []byte(content), 0644))
	database := filepath.Join(dir, "cfo.db")

	n, err := importTransactions(context.Background(), database, ledger)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// importing twice replaces the rows.
	_, err = importTransactions(context.Background(), database, ledger)
	require.NoError(t, err)

	db, err := store.Open(database)
	require.NoError(t, err)
	defer db.Close()
	rows, err := db.LoadRaw(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "a1", rows[0].ID)
	assert.Equal(t, date.New(2024, 3, 5), rows[1].On)
}

func TestImportPrices(t *testing.T) {
	dir := t.TempDir()
	folder := filepath.Join(dir, "market")
	database := filepath.Join(dir, "cfo.db")
	csvFile := filepath.Join(dir, "btc.csv")
	content := `Date,Open,High,Low,Close,Volume
2024-03-01,60000,62000,59000,61000,100
2024-03-02,61000,63000,60000,62000,120
`
	require.NoError(t, os.WriteFile(csvFile, []byte(content), 0644))

	n, err := importPrices(context.Background(), folder, database, "BTC", csvFile, zerolog.Nop())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	prices, err := market.Decode(folder)
	require.NoError(t, err)
	got, ok := prices.Price("BTC", date.New(2024, 3, 2))
	require.True(t, ok)
	assert.Equal(t, 62000.0, got)

	db, err := store.Open(database)
	require.NoError(t, err)
	defer db.Close()
	stored, err := db.LoadPrices(context.Background())
	require.NoError(t, err)
	got, ok = stored.Price("BTC", date.New(2024, 3, 1))
	require.True(t, ok)
	assert.Equal(t, 61000.0, got)
}
