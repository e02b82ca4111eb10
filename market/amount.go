package market

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// UnitPrecision is the number of decimal places kept when converting a
// notional amount to base-asset units at a given price. The notional side
// of the conversion is always exact; only the derived unit count rounds.
const UnitPrecision = 16

// Amount is an order size: either a notional value expressed in the quote
// currency, or a count of base-asset units. Converting between the two
// requires the current price for the pair.
type Amount struct {
	value    decimal.Decimal
	notional bool
}

// Notional builds an amount expressed as quote-currency value.
func Notional(v decimal.Decimal) Amount {
	return Amount{value: v, notional: true}
}

// Units builds an amount expressed as a base-asset unit count.
func Units(v decimal.Decimal) Amount {
	return Amount{value: v}
}

func (a Amount) IsNotional() bool { return a.notional }

func (a Amount) Value() decimal.Decimal { return a.value }

func (a Amount) Positive() bool { return a.value.IsPositive() }

// UnitsAt converts the amount to base-asset units at the given price.
func (a Amount) UnitsAt(price decimal.Decimal) decimal.Decimal {
	if a.notional {
		return a.value.DivRound(price, UnitPrecision)
	}
	return a.value
}

// NotionalAt converts the amount to a quote-currency value at the given
// price. Notional amounts come back unchanged so the requested value is
// preserved exactly through settlement.
func (a Amount) NotionalAt(price decimal.Decimal) decimal.Decimal {
	if a.notional {
		return a.value
	}
	return a.value.Mul(price)
}

func (a Amount) String() string {
	if a.notional {
		return fmt.Sprintf("notional %s", a.value)
	}
	return fmt.Sprintf("%s units", a.value)
}
