package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Side of a trade execution.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// ParseSide validates the raw side column of a trade record.
func ParseSide(s string) (Side, error) {
	switch Side(s) {
	case SideBuy:
		return SideBuy, nil
	case SideSell:
		return SideSell, nil
	}
	return "", fmt.Errorf("unknown trade side %q", s)
}

// Trade is a normalized trade execution. Immutable once built.
type Trade struct {
	// Pair decomposed into base asset and quote currency.
	Pair Pair
	// Side buy or sell.
	Side Side
	// Price execution price in the quote currency.
	Price decimal.Decimal
	// Amount executed quantity of the base asset.
	Amount decimal.Decimal
	// Time execution instant (UTC).
	Time time.Time
}

// String returns a human-readable string representation.
func (t Trade) String() string {
	return fmt.Sprintf("%s %s amount: %s price: %s", t.Pair.String(), t.Side, t.Amount.String(), t.Price.String())
}

// SortTradesByTime orders trades ascending by execution time. The sort is
// stable: trades at the identical instant keep their original relative order,
// since matching results depend on tie order.
func SortTradesByTime(trades []Trade) {
	sort.SliceStable(trades, func(i, j int) bool {
		return trades[i].Time.Before(trades[j].Time)
	})
}
