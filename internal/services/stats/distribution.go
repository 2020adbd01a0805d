package stats

import (
	"github.com/shopspring/decimal"

	"lotview/internal/domain"
)

// DefaultDistributionBins is the bin count of the profit histogram.
const DefaultDistributionBins = 20

// DistributionBin is one equal-width interval of the value histogram.
// Lower is inclusive; Upper is exclusive except for the last bin.
type DistributionBin struct {
	Lower decimal.Decimal
	Upper decimal.Decimal
	Count int
}

// Distribution bins the selected value of closed lots into equal-width
// intervals spanning the observed minimum to maximum. Lots with an undefined
// percentage value are skipped. When every value is identical a single bin
// holds them all. Empty input yields no bins.
func Distribution(closed []domain.ClosedLot, column ValueColumn, bins int) []DistributionBin {
	if bins <= 0 {
		return nil
	}

	var values []decimal.Decimal
	for _, lot := range closed {
		if value, ok := lotValue(lot, column); ok {
			values = append(values, value)
		}
	}
	if len(values) == 0 {
		return nil
	}

	lo, hi := values[0], values[0]
	for _, value := range values[1:] {
		lo = decimal.Min(lo, value)
		hi = decimal.Max(hi, value)
	}
	if lo.Equal(hi) {
		return []DistributionBin{{Lower: lo, Upper: hi, Count: len(values)}}
	}

	width := hi.Sub(lo).Div(decimal.NewFromInt(int64(bins)))
	result := make([]DistributionBin, bins)
	for i := range result {
		lower := lo.Add(width.Mul(decimal.NewFromInt(int64(i))))
		result[i] = DistributionBin{Lower: lower, Upper: lower.Add(width)}
	}
	result[bins-1].Upper = hi

	for _, value := range values {
		idx := int(value.Sub(lo).Div(width).IntPart())
		if idx >= bins {
			idx = bins - 1
		}
		result[idx].Count++
	}
	return result
}
