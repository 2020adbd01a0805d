// Package stats computes summary statistics and time-bucketed aggregations
// over closed lots. All operations are pure reductions over their inputs.
package stats

import (
	"sort"

	"github.com/shopspring/decimal"

	"lotview/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// Summary holds aggregate statistics over the closed-lot collection.
// TotalClosed is zero when there is nothing to report.
type Summary struct {
	TotalClosed int
	TotalProfit decimal.Decimal
	Winning     int
	Losing      int
	// WinRate percentage of closed lots with positive profit, zero on empty input.
	WinRate    decimal.Decimal
	MeanProfit decimal.Decimal
	// MeanPercent mean of per-lot percentage returns over the lots where the
	// return is defined. MeanPercentOK is false when no lot has a defined return.
	MeanPercent   decimal.Decimal
	MeanPercentOK bool
	// MonthlyCounts number of closed lots per close month ("2006-01" keys).
	MonthlyCounts map[string]int
}

// Empty reports whether there is nothing to summarize.
func (s Summary) Empty() bool {
	return s.TotalClosed == 0
}

// Months returns the monthly count keys in ascending order.
func (s Summary) Months() []string {
	months := make([]string, 0, len(s.MonthlyCounts))
	for month := range s.MonthlyCounts {
		months = append(months, month)
	}
	sort.Strings(months)
	return months
}

// Summarize reduces the closed-lot collection to aggregate statistics.
// Lots with a zero cost basis are excluded from the percentage mean: their
// return is undefined, which is not the same thing as zero.
func Summarize(closed []domain.ClosedLot) Summary {
	summary := Summary{
		TotalProfit:   decimal.Zero,
		WinRate:       decimal.Zero,
		MeanProfit:    decimal.Zero,
		MeanPercent:   decimal.Zero,
		MonthlyCounts: make(map[string]int),
	}
	if len(closed) == 0 {
		return summary
	}

	percentSum := decimal.Zero
	percentCount := 0
	for _, lot := range closed {
		summary.TotalClosed++
		summary.TotalProfit = summary.TotalProfit.Add(lot.Profit)
		if lot.Profit.IsPositive() {
			summary.Winning++
		} else if lot.Profit.IsNegative() {
			summary.Losing++
		}
		if pct, ok := lot.PercentReturn(); ok {
			percentSum = percentSum.Add(pct)
			percentCount++
		}
		summary.MonthlyCounts[lot.CloseTime.Format("2006-01")]++
	}

	total := decimal.NewFromInt(int64(summary.TotalClosed))
	summary.WinRate = decimal.NewFromInt(int64(summary.Winning)).Div(total).Mul(hundred)
	summary.MeanProfit = summary.TotalProfit.Div(total)
	if percentCount > 0 {
		summary.MeanPercent = percentSum.Div(decimal.NewFromInt(int64(percentCount)))
		summary.MeanPercentOK = true
	}
	return summary
}
