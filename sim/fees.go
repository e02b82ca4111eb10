package sim

import (
	"github.com/shopspring/decimal"

	"github.com/rustyeddy/paperbroker/broker"
)

// FeeModel computes the commission debited against the quote currency
// when an order settles.
type FeeModel interface {
	Fee(notional decimal.Decimal, side broker.Side) decimal.Decimal
}

// ZeroFee charges nothing. The default.
type ZeroFee struct{}

func (ZeroFee) Fee(decimal.Decimal, broker.Side) decimal.Decimal {
	return decimal.Zero
}

// ProportionalFee charges Rate * notional, e.g. a Rate of 0.001 is 10 bps
// per fill.
type ProportionalFee struct {
	Rate decimal.Decimal
}

func (f ProportionalFee) Fee(notional decimal.Decimal, _ broker.Side) decimal.Decimal {
	return notional.Mul(f.Rate)
}

// FlatFee charges a fixed amount per settled order.
type FlatFee struct {
	Charge decimal.Decimal
}

func (f FlatFee) Fee(decimal.Decimal, broker.Side) decimal.Decimal {
	return f.Charge
}
