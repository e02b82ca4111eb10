package sim

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/paperbroker/broker"
	"github.com/rustyeddy/paperbroker/market"
)

// Ledger holds the per-asset balances of a single account. Balances are
// exact decimals and never go negative. It is mutated only through
// Deposit, Withdraw and Apply; the engine serializes access.
type Ledger struct {
	balances map[market.Asset]decimal.Decimal
}

func NewLedger() *Ledger {
	return &Ledger{balances: make(map[market.Asset]decimal.Decimal)}
}

// Balance reports the current balance for an asset, zero when unseen.
func (l *Ledger) Balance(asset market.Asset) decimal.Decimal {
	if b, ok := l.balances[asset]; ok {
		return b
	}
	return decimal.Zero
}

func (l *Ledger) Deposit(asset market.Asset, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("deposit %s %s: amount must be positive", amount, asset)
	}
	l.balances[asset] = l.Balance(asset).Add(amount)
	return nil
}

func (l *Ledger) Withdraw(asset market.Asset, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("withdraw %s %s: amount must be positive", amount, asset)
	}
	return l.Apply([]Entry{{Asset: asset, Delta: amount.Neg()}})
}

// Entry is one leg of a settlement. A positive Delta credits the asset, a
// negative one debits it.
type Entry struct {
	Asset market.Asset
	Delta decimal.Decimal
}

// Apply applies every entry or none. All legs are checked against the
// resulting balances before anything mutates, so a failed settlement
// leaves the ledger untouched.
func (l *Ledger) Apply(entries []Entry) error {
	staged := make(map[market.Asset]decimal.Decimal, len(entries))
	for _, e := range entries {
		cur, ok := staged[e.Asset]
		if !ok {
			cur = l.Balance(e.Asset)
		}
		next := cur.Add(e.Delta)
		if next.IsNegative() {
			return fmt.Errorf("%w: %s short by %s", broker.ErrInsufficientFunds, e.Asset, next.Neg())
		}
		staged[e.Asset] = next
	}
	for asset, v := range staged {
		l.balances[asset] = v
	}
	return nil
}

// Snapshot returns a copy of all balances.
func (l *Ledger) Snapshot() map[market.Asset]decimal.Decimal {
	out := make(map[market.Asset]decimal.Decimal, len(l.balances))
	for asset, v := range l.balances {
		out[asset] = v
	}
	return out
}

// Assets lists every asset the ledger has seen, sorted for deterministic
// iteration.
func (l *Ledger) Assets() []market.Asset {
	assets := make([]market.Asset, 0, len(l.balances))
	for a := range l.balances {
		assets = append(assets, a)
	}
	sort.Slice(assets, func(i, j int) bool { return assets[i] < assets[j] })
	return assets
}
