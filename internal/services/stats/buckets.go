package stats

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"lotview/internal/domain"
)

// Period selects the time-bucketing granularity for profit reports.
type Period int

const (
	PeriodMonth Period = iota
	PeriodTrimester
	PeriodYear
)

func (p Period) String() string {
	switch p {
	case PeriodMonth:
		return "month"
	case PeriodTrimester:
		return "trimester"
	case PeriodYear:
		return "year"
	default:
		return "unknown"
	}
}

// ParsePeriod parses a period name from configuration.
func ParsePeriod(s string) (Period, error) {
	switch strings.ToLower(s) {
	case "month", "monthly":
		return PeriodMonth, nil
	case "trimester", "quarter", "quarterly":
		return PeriodTrimester, nil
	case "year", "yearly":
		return PeriodYear, nil
	}
	return PeriodMonth, fmt.Errorf("unknown period %q", s)
}

// ValueColumn selects which per-lot value a report aggregates.
type ValueColumn int

const (
	ValueAbsolute ValueColumn = iota
	ValuePercent
)

func (v ValueColumn) String() string {
	if v == ValuePercent {
		return "percentage"
	}
	return "absolute"
}

// ParseValueColumn parses a value column name from configuration.
func ParseValueColumn(s string) (ValueColumn, error) {
	switch strings.ToLower(s) {
	case "absolute", "abs":
		return ValueAbsolute, nil
	case "percentage", "percent", "pct":
		return ValuePercent, nil
	}
	return ValueAbsolute, fmt.Errorf("unknown value column %q", s)
}

// BucketKey formats the bucket label of an instant for the given period,
// e.g. "2024-03", "2024Q1", "2024". Labels sort chronologically.
func BucketKey(p Period, t time.Time) string {
	switch p {
	case PeriodTrimester:
		return fmt.Sprintf("%dQ%d", t.Year(), (int(t.Month())-1)/3+1)
	case PeriodYear:
		return fmt.Sprintf("%d", t.Year())
	default:
		return t.Format("2006-01")
	}
}

// Bucket is one time bucket of the profit report.
type Bucket struct {
	Key string
	// Count closed lots falling into the bucket, including lots whose
	// percentage value is undefined.
	Count int
	// Sum and Mean of the selected value over the lots where it is defined.
	// MeanOK is false when no lot in the bucket has a defined value; the
	// mean is undefined then, which is not the same thing as zero.
	Sum    decimal.Decimal
	Mean   decimal.Decimal
	MeanOK bool
	// StdDev sample standard deviation of the selected value. NaN when
	// fewer than two defined values fall into the bucket.
	StdDev float64
}

// Buckets groups closed lots by the close-time bucket of the given period
// and aggregates the selected value column per bucket. Lots with an
// undefined percentage value count toward Count but not toward Sum, Mean
// or StdDev. Buckets are returned in chronological order.
func Buckets(closed []domain.ClosedLot, period Period, column ValueColumn) []Bucket {
	type accumulator struct {
		count  int
		values []decimal.Decimal
	}
	groups := make(map[string]*accumulator)
	for _, lot := range closed {
		key := BucketKey(period, lot.CloseTime)
		acc := groups[key]
		if acc == nil {
			acc = &accumulator{}
			groups[key] = acc
		}
		acc.count++
		if value, ok := lotValue(lot, column); ok {
			acc.values = append(acc.values, value)
		}
	}

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	buckets := make([]Bucket, 0, len(keys))
	for _, key := range keys {
		acc := groups[key]
		bucket := Bucket{Key: key, Count: acc.count, Sum: decimal.Zero, Mean: decimal.Zero, StdDev: math.NaN()}
		if n := len(acc.values); n > 0 {
			for _, value := range acc.values {
				bucket.Sum = bucket.Sum.Add(value)
			}
			bucket.Mean = bucket.Sum.Div(decimal.NewFromInt(int64(n)))
			bucket.MeanOK = true
			if n > 1 {
				bucket.StdDev = sampleStdDev(acc.values, bucket.Mean)
			}
		}
		buckets = append(buckets, bucket)
	}
	return buckets
}

// lotValue extracts the selected value of a lot. The absolute profit is
// always defined; the percentage is undefined on zero cost basis.
func lotValue(lot domain.ClosedLot, column ValueColumn) (decimal.Decimal, bool) {
	if column == ValuePercent {
		return lot.PercentReturn()
	}
	return lot.Profit, true
}

// sampleStdDev computes the sample standard deviation (n-1 denominator).
// Computed in float64: decimals have no square root, and the result feeds
// display only.
func sampleStdDev(values []decimal.Decimal, mean decimal.Decimal) float64 {
	meanF, _ := mean.Float64()
	var sumSquares float64
	for _, value := range values {
		v, _ := value.Float64()
		diff := v - meanF
		sumSquares += diff * diff
	}
	return math.Sqrt(sumSquares / float64(len(values)-1))
}

// MonthlyPercent is the cost-basis-weighted percentage profit of one month.
type MonthlyPercent struct {
	Month   string
	Percent decimal.Decimal
}

// WeightedMonthlyPercent computes per-month percentage profit as
// sum(profit) / sum(cost basis) * 100, a ratio of sums rather than a mean
// of per-lot ratios. Months with zero aggregate cost basis report zero.
func WeightedMonthlyPercent(closed []domain.ClosedLot) []MonthlyPercent {
	type sums struct {
		profit decimal.Decimal
		basis  decimal.Decimal
	}
	groups := make(map[string]*sums)
	for _, lot := range closed {
		key := BucketKey(PeriodMonth, lot.CloseTime)
		group := groups[key]
		if group == nil {
			group = &sums{profit: decimal.Zero, basis: decimal.Zero}
			groups[key] = group
		}
		group.profit = group.profit.Add(lot.Profit)
		group.basis = group.basis.Add(lot.CostBasis())
	}

	months := make([]string, 0, len(groups))
	for month := range groups {
		months = append(months, month)
	}
	sort.Strings(months)

	result := make([]MonthlyPercent, 0, len(months))
	for _, month := range months {
		group := groups[month]
		percent := decimal.Zero
		if !group.basis.IsZero() {
			percent = group.profit.Div(group.basis).Mul(hundred)
		}
		result = append(result, MonthlyPercent{Month: month, Percent: percent})
	}
	return result
}

// CumulativePoint is one point of the running-total profit curve.
type CumulativePoint struct {
	Time  time.Time
	Value decimal.Decimal
}

// Cumulative produces the running cumulative sum of the selected value over
// closed lots ordered by close time, one point per lot. Lots with an
// undefined percentage value are skipped.
func Cumulative(closed []domain.ClosedLot, column ValueColumn) []CumulativePoint {
	ordered := make([]domain.ClosedLot, len(closed))
	copy(ordered, closed)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CloseTime.Before(ordered[j].CloseTime)
	})

	points := make([]CumulativePoint, 0, len(ordered))
	running := decimal.Zero
	for _, lot := range ordered {
		value, ok := lotValue(lot, column)
		if !ok {
			continue
		}
		running = running.Add(value)
		points = append(points, CumulativePoint{Time: lot.CloseTime, Value: running})
	}
	return points
}
