package journal

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderRecord is the journal row for an order that reached a terminal
// state. Rejected and cancelled orders carry zero fill fields and a Reason.
type OrderRecord struct {
	OrderID   string
	Pair      string
	Side      string
	Type      string
	Status    string
	Units     decimal.Decimal
	FillPrice decimal.Decimal
	Notional  decimal.Decimal
	Fee       decimal.Decimal
	PlacedAt  time.Time
	SettledAt time.Time
	Reason    string
}

// BalanceSnapshot is one asset's balance at a simulated instant.
type BalanceSnapshot struct {
	Time    time.Time
	Asset   string
	Balance decimal.Decimal
}

type Journal interface {
	RecordOrder(OrderRecord) error
	RecordBalance(BalanceSnapshot) error
	Close() error
}

// Discard drops every record. Used when the caller wants no journaling.
type Discard struct{}

func (Discard) RecordOrder(OrderRecord) error       { return nil }
func (Discard) RecordBalance(BalanceSnapshot) error { return nil }
func (Discard) Close() error                        { return nil }
