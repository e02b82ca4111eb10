package broker

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/paperbroker/market"
)

// Client is the public trading interface. The simulated engine implements
// it in-process; a live brokerage adapter would satisfy the identical
// contract and be a drop-in replacement.
type Client interface {
	PlaceOrder(ctx context.Context, req OrderRequest) (string, error)
	CancelOrder(ctx context.Context, orderID string) error
	GetOrder(ctx context.Context, orderID string) (Order, error)
	GetOrders(ctx context.Context) ([]Order, error)
	GetAccount(ctx context.Context) (Account, error)
}

type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	}
	return "unknown"
}

type OrderType int

const (
	MarketOrder OrderType = iota
	LimitOrder
)

func (t OrderType) String() string {
	switch t {
	case MarketOrder:
		return "market"
	case LimitOrder:
		return "limit"
	}
	return "unknown"
}

// Status is the order lifecycle state. Pending is the only non-terminal
// state; once an order reaches a terminal status its recorded fields never
// change again.
type Status int

const (
	Pending Status = iota
	Filled
	Rejected
	Cancelled
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Filled:
		return "filled"
	case Rejected:
		return "rejected"
	case Cancelled:
		return "cancelled"
	}
	return "unknown"
}

func (s Status) Terminal() bool { return s != Pending }

// OrderRequest describes an order to be placed. A nil LimitPrice means a
// market order.
type OrderRequest struct {
	Pair       market.Pair
	Side       Side
	Amount     market.Amount
	LimitPrice *decimal.Decimal
}

func MarketBuy(pair market.Pair, amount market.Amount) OrderRequest {
	return OrderRequest{Pair: pair, Side: Buy, Amount: amount}
}

func MarketSell(pair market.Pair, amount market.Amount) OrderRequest {
	return OrderRequest{Pair: pair, Side: Sell, Amount: amount}
}

func LimitBuy(pair market.Pair, amount market.Amount, limit decimal.Decimal) OrderRequest {
	return OrderRequest{Pair: pair, Side: Buy, Amount: amount, LimitPrice: &limit}
}

func LimitSell(pair market.Pair, amount market.Amount, limit decimal.Decimal) OrderRequest {
	return OrderRequest{Pair: pair, Side: Sell, Amount: amount, LimitPrice: &limit}
}

func (r OrderRequest) Type() OrderType {
	if r.LimitPrice == nil {
		return MarketOrder
	}
	return LimitOrder
}

// Order is the record of a placed order. FillPrice, FilledUnits and Fee
// are set when the order settles; Reason is set on rejection.
type Order struct {
	ID          string
	Pair        market.Pair
	Side        Side
	Type        OrderType
	Amount      market.Amount
	LimitPrice  *decimal.Decimal
	Status      Status
	FilledUnits decimal.Decimal
	FillPrice   *decimal.Decimal
	Fee         decimal.Decimal
	PlacedAt    time.Time
	SettledAt   time.Time
	Reason      string
}

// Account is a snapshot of per-asset balances. Unseen assets report zero.
type Account struct {
	ID       string
	Currency market.Asset
	Balances map[market.Asset]decimal.Decimal
}

func (a Account) Balance(asset market.Asset) decimal.Decimal {
	if b, ok := a.Balances[asset]; ok {
		return b
	}
	return decimal.Zero
}
