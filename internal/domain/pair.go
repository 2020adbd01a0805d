// Package domain defines the core data structures of the portfolio viewer.
package domain

import (
	"fmt"
	"strings"
)

// UnknownQuote is reported when a pair symbol ends in no known quote currency.
const UnknownQuote = "UNKNOWN"

// DefaultQuoteCurrencies is the priority-ordered list of quote currency
// suffixes used to decompose pair symbols. The first suffix that matches wins.
var DefaultQuoteCurrencies = []string{"EUR", "USDT", "FDUSD"}

// DecompositionError reports a pair symbol that ends in no known quote currency.
type DecompositionError struct {
	Symbol string
}

func (e *DecompositionError) Error() string {
	return fmt.Sprintf("unable to determine base currency for pair %q", e.Symbol)
}

// Pair is a trading pair split into base asset and quote currency.
type Pair struct {
	// Base asset symbol.
	Base string
	// Quote currency symbol, or UnknownQuote.
	Quote string
}

// String returns the string representation.
func (p Pair) String() string {
	return fmt.Sprintf("%s_%s", p.Base, p.Quote)
}

// Symbol returns the concatenated symbol representation.
func (p Pair) Symbol() string {
	return fmt.Sprintf("%s%s", p.Base, p.Quote)
}

// SplitSymbol decomposes a pair symbol by stripping the first matching quote
// suffix. When no suffix matches it falls back to the full symbol as the base
// asset with an UnknownQuote quote, so callers that tolerate unresolvable
// pairs never fail here.
func SplitSymbol(symbol string, quotes []string) Pair {
	for _, quote := range quotes {
		if len(symbol) > len(quote) && strings.HasSuffix(symbol, quote) {
			return Pair{Base: strings.TrimSuffix(symbol, quote), Quote: quote}
		}
	}
	return Pair{Base: symbol, Quote: UnknownQuote}
}

// SplitSymbolStrict decomposes a pair symbol and returns a DecompositionError
// when no known quote currency matches.
func SplitSymbolStrict(symbol string, quotes []string) (Pair, error) {
	pair := SplitSymbol(symbol, quotes)
	if pair.Quote == UnknownQuote {
		return Pair{}, &DecompositionError{Symbol: symbol}
	}
	return pair, nil
}
