package broker

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/paperbroker/market"
)

func TestStatusTerminal(t *testing.T) {
	t.Parallel()

	if Pending.Terminal() {
		t.Fatal("pending must not be terminal")
	}
	for _, s := range []Status{Filled, Rejected, Cancelled} {
		if !s.Terminal() {
			t.Fatalf("%s must be terminal", s)
		}
	}
}

func TestStringers(t *testing.T) {
	t.Parallel()

	if Buy.String() != "buy" || Sell.String() != "sell" {
		t.Fatal("side strings")
	}
	if MarketOrder.String() != "market" || LimitOrder.String() != "limit" {
		t.Fatal("order type strings")
	}
	if Pending.String() != "pending" || Filled.String() != "filled" {
		t.Fatal("status strings")
	}
	if Side(42).String() != "unknown" || Status(42).String() != "unknown" {
		t.Fatal("out-of-range values should print unknown")
	}
}

func TestRequestConstructors(t *testing.T) {
	t.Parallel()

	pair := market.Pair{Base: "AAPL", Quote: "USD"}
	amount := market.Units(decimal.NewFromInt(1))

	if req := MarketBuy(pair, amount); req.Type() != MarketOrder || req.Side != Buy {
		t.Fatalf("MarketBuy = %+v", req)
	}
	if req := MarketSell(pair, amount); req.Type() != MarketOrder || req.Side != Sell {
		t.Fatalf("MarketSell = %+v", req)
	}

	limit := decimal.NewFromInt(250)
	req := LimitBuy(pair, amount, limit)
	if req.Type() != LimitOrder || req.LimitPrice == nil || !req.LimitPrice.Equal(limit) {
		t.Fatalf("LimitBuy = %+v", req)
	}
	if req := LimitSell(pair, amount, limit); req.Type() != LimitOrder || req.Side != Sell {
		t.Fatalf("LimitSell = %+v", req)
	}
}

func TestAccountBalanceDefault(t *testing.T) {
	t.Parallel()

	acct := Account{Balances: map[market.Asset]decimal.Decimal{
		"USD": decimal.NewFromInt(900),
	}}
	if !acct.Balance("USD").Equal(decimal.NewFromInt(900)) {
		t.Fatalf("USD = %s", acct.Balance("USD"))
	}
	if !acct.Balance("AAPL").IsZero() {
		t.Fatalf("unseen asset = %s, want 0", acct.Balance("AAPL"))
	}
}
