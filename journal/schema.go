package journal

// Decimal columns are stored as TEXT so values round-trip without drift.
const Schema = `
CREATE TABLE IF NOT EXISTS orders (
	order_id TEXT PRIMARY KEY,
	pair TEXT NOT NULL,
	side TEXT NOT NULL,
	type TEXT NOT NULL,
	status TEXT NOT NULL,
	units TEXT NOT NULL,
	fill_price TEXT NOT NULL,
	notional TEXT NOT NULL,
	fee TEXT NOT NULL,
	placed_at DATETIME NOT NULL,
	settled_at DATETIME NOT NULL,
	reason TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS balances (
	time DATETIME NOT NULL,
	asset TEXT NOT NULL,
	balance TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_balances_time ON balances(time);
`
