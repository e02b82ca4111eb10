package market

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestStoreSetAndGet(t *testing.T) {
	t.Parallel()

	s := NewStore()
	pair := Pair{Base: "AAPL", Quote: "USD"}

	_, err := s.PriceAt(pair, time.Now())
	if !errors.Is(err, ErrNoPrice) {
		t.Fatalf("unset pair: got %v, want ErrNoPrice", err)
	}

	s.SetPrice(pair, decimal.RequireFromString("276.39"))
	p, err := s.PriceAt(pair, time.Now())
	if err != nil {
		t.Fatalf("PriceAt: %v", err)
	}
	if !p.Equal(decimal.RequireFromString("276.39")) {
		t.Fatalf("PriceAt = %s, want 276.39", p)
	}

	// Latest set wins; the instant is ignored.
	s.SetPrice(pair, decimal.NewFromInt(240))
	p, _ = s.PriceAt(pair, time.Time{})
	if !p.Equal(decimal.NewFromInt(240)) {
		t.Fatalf("PriceAt = %s, want 240", p)
	}
}

func TestHistoryPriceAt(t *testing.T) {
	t.Parallel()

	pair := Pair{Base: "EUR", Quote: "USD"}
	t0 := time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC)

	h := NewHistory()
	h.AddBars(pair, []Bar{
		{Time: t0.Add(2 * time.Minute), Low: decimal.NewFromInt(5), High: decimal.NewFromInt(10)},
		{Time: t0, Low: decimal.NewFromInt(10), High: decimal.NewFromInt(20)},
	})

	// Before the first bar there is no price.
	_, err := h.PriceAt(pair, t0.Add(-time.Second))
	if !errors.Is(err, ErrNoPrice) {
		t.Fatalf("before first bar: got %v, want ErrNoPrice", err)
	}

	// At and after a bar's time its mid applies.
	p, err := h.PriceAt(pair, t0)
	if err != nil {
		t.Fatalf("PriceAt: %v", err)
	}
	if !p.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("mid = %s, want 15", p)
	}

	p, _ = h.PriceAt(pair, t0.Add(time.Minute))
	if !p.Equal(decimal.NewFromInt(15)) {
		t.Fatalf("mid between bars = %s, want 15", p)
	}

	p, _ = h.PriceAt(pair, t0.Add(10*time.Minute))
	if !p.Equal(decimal.RequireFromString("7.5")) {
		t.Fatalf("mid after second bar = %s, want 7.5", p)
	}

	_, err = h.PriceAt(Pair{Base: "GBP", Quote: "USD"}, t0)
	if !errors.Is(err, ErrNoPrice) {
		t.Fatalf("unknown pair: got %v, want ErrNoPrice", err)
	}
}
