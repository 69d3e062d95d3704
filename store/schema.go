package store

// Schema creates the tables if they do not exist yet.
//
// Amounts are kept as decimal strings to stay exact.
const Schema = `
CREATE TABLE IF NOT EXISTS raw_transactions (
	id TEXT PRIMARY KEY,
	type TEXT NOT NULL,
	on_day TEXT NOT NULL,
	symbol TEXT NOT NULL,
	amount TEXT NOT NULL,
	native_amount TEXT NOT NULL,
	currency TEXT NOT NULL,
	spot_price TEXT NOT NULL DEFAULT '0',
	fee TEXT NOT NULL DEFAULT '0',
	trade_id TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_raw_transactions_day ON raw_transactions(on_day);

CREATE TABLE IF NOT EXISTS closes (
	symbol TEXT NOT NULL,
	on_day TEXT NOT NULL,
	close REAL NOT NULL,
	PRIMARY KEY (symbol, on_day)
);
`
