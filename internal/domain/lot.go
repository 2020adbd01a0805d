package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Lot is an open position unit: a quantity of a base asset acquired at a
// specific price and time, not yet fully sold. Amount only ever decreases;
// the lot is removed from its queue when it reaches zero.
type Lot struct {
	Price  decimal.Decimal
	Amount decimal.Decimal
	Time   time.Time
}

// ClosedLot is the portion of a buy lot consumed by a sell execution.
// Immutable once created.
type ClosedLot struct {
	Base       string
	OpenPrice  decimal.Decimal
	ClosePrice decimal.Decimal
	Amount     decimal.Decimal
	OpenTime   time.Time
	CloseTime  time.Time
	// Profit realized profit/loss in the quote currency:
	// amount * (closePrice - openPrice).
	Profit decimal.Decimal
	// Manual marks lots synthesized from an orphan sell resolution.
	Manual bool
}

// CostBasis returns openPrice * amount, the denominator for percentage
// return calculations.
func (c ClosedLot) CostBasis() decimal.Decimal {
	return c.OpenPrice.Mul(c.Amount)
}

// PercentReturn returns the realized return as a percentage of cost basis.
// The second result is false when the cost basis is zero: the return is
// undefined then, which is not the same thing as zero.
func (c ClosedLot) PercentReturn() (decimal.Decimal, bool) {
	basis := c.CostBasis()
	if basis.IsZero() {
		return decimal.Zero, false
	}
	return c.Profit.Div(basis).Mul(decimal.NewFromInt(100)), true
}

// OrphanSell is a sell execution that found no open lot to match against.
// It is data, not an error: it stays pending until cost basis is supplied
// externally.
type OrphanSell struct {
	// ID identifies the orphan within a run (not stable across runs,
	// see Fingerprint).
	ID     string
	Base   string
	Price  decimal.Decimal
	Amount decimal.Decimal
	Time   time.Time
}

// Fingerprint is a deterministic key for the orphan, stable across runs over
// the same input set. Used to match journaled resolutions back to orphans.
func (o OrphanSell) Fingerprint() string {
	return fmt.Sprintf("%s|%s|%s|%d", o.Base, o.Price.String(), o.Amount.String(), o.Time.UTC().Unix())
}
