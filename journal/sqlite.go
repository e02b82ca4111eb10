package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordOrder(r OrderRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO orders
		(order_id, pair, side, type, status, units, fill_price, notional, fee, placed_at, settled_at, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.OrderID, r.Pair, r.Side, r.Type, r.Status,
		r.Units.String(), r.FillPrice.String(), r.Notional.String(), r.Fee.String(),
		r.PlacedAt, r.SettledAt, r.Reason,
	)
	return err
}

func (j *SQLite) RecordBalance(s BalanceSnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO balances (time, asset, balance)
		VALUES (?, ?, ?)`,
		s.Time, s.Asset, s.Balance.String(),
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
