// Package matcher reconstructs which buys were closed by which sells under
// a strict first-in-first-out lot-matching discipline.
package matcher

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"lotview/internal/domain"
)

// PositionBook maps a base asset to its open lots, oldest first. Buys push
// at the tail, sells consume from the head; within one asset's queue the
// open times are non-decreasing.
type PositionBook map[string][]domain.Lot

// OpenPosition is the per-asset summary of remaining unmatched buy exposure.
type OpenPosition struct {
	Base string
	// MeanPrice amount-weighted mean open price.
	MeanPrice decimal.Decimal
	// Amount total open quantity.
	Amount decimal.Decimal
	// Notional amount * mean price, in the quote currency.
	Notional decimal.Decimal
}

// Result of one matching run over the full trade set.
type Result struct {
	Closed  []domain.ClosedLot
	Open    PositionBook
	Orphans []domain.OrphanSell
}

// Match processes trades in ascending time order, maintaining one FIFO lot
// queue per base asset. Sells consume the oldest lots first, splitting a lot
// when it is larger than the remaining sell quantity. A sell that finds no
// open lot, or that outruns all open lots, produces an orphan record for the
// unmatched quantity instead of an error: missing cost basis is data here.
//
// Trades must already be sorted by time (see domain.SortTradesByTime).
func Match(trades []domain.Trade) Result {
	book := make(PositionBook)
	result := Result{Open: book}

	for _, trade := range trades {
		base := trade.Pair.Base
		switch trade.Side {
		case domain.SideBuy:
			book[base] = append(book[base], domain.Lot{
				Price:  trade.Price,
				Amount: trade.Amount,
				Time:   trade.Time,
			})
		case domain.SideSell:
			remaining := trade.Amount
			queue := book[base]
			for remaining.IsPositive() && len(queue) > 0 {
				head := &queue[0]
				take := decimal.Min(head.Amount, remaining)
				result.Closed = append(result.Closed, domain.ClosedLot{
					Base:       base,
					OpenPrice:  head.Price,
					ClosePrice: trade.Price,
					Amount:     take,
					OpenTime:   head.Time,
					CloseTime:  trade.Time,
					Profit:     take.Mul(trade.Price.Sub(head.Price)),
				})
				head.Amount = head.Amount.Sub(take)
				remaining = remaining.Sub(take)
				if head.Amount.IsZero() {
					queue = queue[1:]
				}
			}
			if len(queue) == 0 {
				delete(book, base)
			} else {
				book[base] = queue
			}
			if remaining.IsPositive() {
				result.Orphans = append(result.Orphans, domain.OrphanSell{
					ID:     uuid.New().String(),
					Base:   base,
					Price:  trade.Price,
					Amount: remaining,
					Time:   trade.Time,
				})
			}
		}
	}

	return result
}

// Summary reduces the book to per-asset open position summaries, sorted by
// base asset for stable output.
func (b PositionBook) Summary() []OpenPosition {
	summaries := make([]OpenPosition, 0, len(b))
	for base, lots := range b {
		total := decimal.Zero
		weighted := decimal.Zero
		for _, lot := range lots {
			total = total.Add(lot.Amount)
			weighted = weighted.Add(lot.Price.Mul(lot.Amount))
		}
		mean := decimal.Zero
		if total.IsPositive() {
			mean = weighted.Div(total)
		}
		summaries = append(summaries, OpenPosition{
			Base:      base,
			MeanPrice: mean,
			Amount:    total,
			Notional:  total.Mul(mean),
		})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Base < summaries[j].Base })
	return summaries
}

// Lots flattens the book into (base, lot) records ordered by base asset and
// open time, for the open positions table.
func (b PositionBook) Lots() []OpenLot {
	var lots []OpenLot
	for base, queue := range b {
		for _, lot := range queue {
			lots = append(lots, OpenLot{Base: base, Lot: lot})
		}
	}
	sort.Slice(lots, func(i, j int) bool {
		if lots[i].Base != lots[j].Base {
			return lots[i].Base < lots[j].Base
		}
		return lots[i].Time.Before(lots[j].Time)
	})
	return lots
}

// OpenLot is one open lot tagged with its base asset.
type OpenLot struct {
	Base string
	domain.Lot
}

// TotalOpenAmount sums the open amounts for one base asset.
func (b PositionBook) TotalOpenAmount(base string) decimal.Decimal {
	total := decimal.Zero
	for _, lot := range b[base] {
		total = total.Add(lot.Amount)
	}
	return total
}

// sortClosed orders closed lots by close time ascending, stable for ties.
func sortClosed(closed []domain.ClosedLot) {
	sort.SliceStable(closed, func(i, j int) bool {
		return closed[i].CloseTime.Before(closed[j].CloseTime)
	})
}

// MergeManual appends manually resolved lots to the closed set and restores
// close-time ordering for downstream aggregation.
func MergeManual(closed []domain.ClosedLot, manual []domain.ClosedLot) []domain.ClosedLot {
	merged := make([]domain.ClosedLot, 0, len(closed)+len(manual))
	merged = append(merged, closed...)
	merged = append(merged, manual...)
	sortClosed(merged)
	return merged
}
