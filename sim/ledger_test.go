package sim

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/paperbroker/broker"
	"github.com/rustyeddy/paperbroker/market"
)

func TestLedgerBalanceDefaultsToZero(t *testing.T) {
	t.Parallel()

	l := NewLedger()
	if !l.Balance("USD").IsZero() {
		t.Fatalf("unseen asset balance = %s, want 0", l.Balance("USD"))
	}
}

func TestLedgerDepositWithdraw(t *testing.T) {
	t.Parallel()

	l := NewLedger()
	if err := l.Deposit("USD", decimal.NewFromInt(1000)); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if err := l.Withdraw("USD", decimal.NewFromInt(400)); err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if !l.Balance("USD").Equal(decimal.NewFromInt(600)) {
		t.Fatalf("balance = %s, want 600", l.Balance("USD"))
	}

	err := l.Withdraw("USD", decimal.NewFromInt(601))
	if !errors.Is(err, broker.ErrInsufficientFunds) {
		t.Fatalf("overdraw: got %v, want ErrInsufficientFunds", err)
	}
	if !l.Balance("USD").Equal(decimal.NewFromInt(600)) {
		t.Fatalf("failed withdraw changed balance to %s", l.Balance("USD"))
	}

	if err := l.Deposit("USD", decimal.Zero); err == nil {
		t.Fatal("zero deposit should fail")
	}
	if err := l.Withdraw("USD", decimal.NewFromInt(-1)); err == nil {
		t.Fatal("negative withdraw should fail")
	}
}

func TestLedgerApplyAllOrNothing(t *testing.T) {
	t.Parallel()

	l := NewLedger()
	if err := l.Deposit("USD", decimal.NewFromInt(100)); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	// Second leg overdraws; the first must not apply either.
	err := l.Apply([]Entry{
		{Asset: "AAPL", Delta: decimal.NewFromInt(1)},
		{Asset: "USD", Delta: decimal.NewFromInt(-150)},
	})
	if !errors.Is(err, broker.ErrInsufficientFunds) {
		t.Fatalf("got %v, want ErrInsufficientFunds", err)
	}
	if !l.Balance("AAPL").IsZero() {
		t.Fatalf("AAPL = %s after failed apply, want 0", l.Balance("AAPL"))
	}
	if !l.Balance("USD").Equal(decimal.NewFromInt(100)) {
		t.Fatalf("USD = %s after failed apply, want 100", l.Balance("USD"))
	}

	if err := l.Apply([]Entry{
		{Asset: "USD", Delta: decimal.NewFromInt(-100)},
		{Asset: "AAPL", Delta: decimal.NewFromInt(1)},
	}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !l.Balance("USD").IsZero() || !l.Balance("AAPL").Equal(decimal.NewFromInt(1)) {
		t.Fatalf("balances USD=%s AAPL=%s", l.Balance("USD"), l.Balance("AAPL"))
	}
}

func TestLedgerApplySameAssetTwice(t *testing.T) {
	t.Parallel()

	l := NewLedger()
	if err := l.Deposit("USD", decimal.NewFromInt(100)); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	// Two debits against the same asset must be checked cumulatively.
	err := l.Apply([]Entry{
		{Asset: "USD", Delta: decimal.NewFromInt(-60)},
		{Asset: "USD", Delta: decimal.NewFromInt(-60)},
	})
	if !errors.Is(err, broker.ErrInsufficientFunds) {
		t.Fatalf("got %v, want ErrInsufficientFunds", err)
	}
	if !l.Balance("USD").Equal(decimal.NewFromInt(100)) {
		t.Fatalf("USD = %s after failed apply", l.Balance("USD"))
	}
}

func TestLedgerAssetsSorted(t *testing.T) {
	t.Parallel()

	l := NewLedger()
	for _, a := range []string{"USD", "AAPL", "GBP"} {
		if err := l.Deposit(market.Asset(a), decimal.NewFromInt(1)); err != nil {
			t.Fatalf("deposit %s: %v", a, err)
		}
	}

	assets := l.Assets()
	want := []string{"AAPL", "GBP", "USD"}
	if len(assets) != len(want) {
		t.Fatalf("Assets() = %v", assets)
	}
	for i, a := range assets {
		if string(a) != want[i] {
			t.Fatalf("Assets() = %v, want %v", assets, want)
		}
	}
}
