package market

import (
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

var two = decimal.NewFromInt(2)

// Bar is OHLC candlestick data for a single interval.
type Bar struct {
	Time   time.Time
	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Close  decimal.Decimal
	Volume decimal.Decimal
}

// Mid is the price a simulated fill sees while the bar is current.
func (b Bar) Mid() decimal.Decimal {
	return b.Low.Add(b.High).Div(two)
}

// History is a DataSource backed by per-pair bar series. PriceAt returns
// the mid of the most recent bar at or before the requested instant, so
// advancing the simulated clock walks the price through the series.
type History struct {
	mu   sync.RWMutex
	bars map[Pair][]Bar
}

func NewHistory() *History {
	return &History{bars: make(map[Pair][]Bar)}
}

// AddBars appends bars for a pair. The series is kept sorted by time.
func (h *History) AddBars(pair Pair, bars []Bar) {
	h.mu.Lock()
	defer h.mu.Unlock()
	series := append(h.bars[pair], bars...)
	sort.Slice(series, func(i, j int) bool {
		return series[i].Time.Before(series[j].Time)
	})
	h.bars[pair] = series
}

func (h *History) PriceAt(pair Pair, at time.Time) (decimal.Decimal, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	series := h.bars[pair]
	i := sort.Search(len(series), func(i int) bool {
		return series[i].Time.After(at)
	})
	if i == 0 {
		return decimal.Decimal{}, ErrNoPrice
	}
	return series[i-1].Mid(), nil
}
