package market

import (
	"fmt"
	"strings"
)

// Asset identifies a tradable instrument by symbol, e.g. "AAPL" or "USD".
type Asset string

// Pair is a base asset traded against a quote (currency) asset.
// "AAPL/USD" trades AAPL units priced in USD.
type Pair struct {
	Base  Asset
	Quote Asset
}

func (p Pair) String() string {
	return string(p.Base) + "/" + string(p.Quote)
}

// ParsePair parses a "BASE/QUOTE" symbol such as "AAPL/USD".
func ParsePair(s string) (Pair, error) {
	base, quote, ok := strings.Cut(s, "/")
	if !ok || base == "" || quote == "" || strings.Contains(quote, "/") {
		return Pair{}, fmt.Errorf("malformed pair %q", s)
	}
	return Pair{Base: Asset(base), Quote: Asset(quote)}, nil
}
