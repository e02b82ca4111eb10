package market

import (
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNoPrice is returned by a DataSource that has no quote for the pair at
// the requested instant. Callers treat it as a matching precondition
// failure, not a fatal error.
var ErrNoPrice = errors.New("no price available")

// DataSource provides the quote-currency price per unit of the base asset
// at a point in simulated time. Implementations are read-only.
type DataSource interface {
	PriceAt(pair Pair, at time.Time) (decimal.Decimal, error)
}

// Store is an in-memory DataSource whose prices are set directly by the
// caller. The instant is ignored: the most recently set price wins. It is
// the fixture used to drive deterministic engine tests.
type Store struct {
	mu     sync.RWMutex
	prices map[Pair]decimal.Decimal
}

func NewStore() *Store {
	return &Store{prices: make(map[Pair]decimal.Decimal)}
}

func (s *Store) SetPrice(pair Pair, price decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prices[pair] = price
}

func (s *Store) PriceAt(pair Pair, _ time.Time) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.prices[pair]
	if !ok {
		return decimal.Decimal{}, ErrNoPrice
	}
	return p, nil
}
