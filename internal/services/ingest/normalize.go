package ingest

import (
	"fmt"
	"regexp"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"lotview/internal/domain"
)

// numericToken extracts the leading numeric token from amount-like fields:
// optional fractional part, unit suffix ignored.
var numericToken = regexp.MustCompile(`\d+(\.\d+)?`)

// dateLayouts accepted for the Date(UTC) column, tried in order.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// MalformedFieldError reports a required field that cannot be parsed,
// with enough context to fix the input.
type MalformedFieldError struct {
	Origin string
	Line   int
	Field  string
	Value  string
	Reason string
}

func (e *MalformedFieldError) Error() string {
	return fmt.Sprintf("%s row %d: malformed field %s=%q: %s", e.Origin, e.Line, e.Field, e.Value, e.Reason)
}

// Normalize coerces raw rows into domain trades and orders them ascending by
// execution time. Any unparseable field aborts normalization before matching
// can begin; no partial trade set is ever returned. Pair symbols with an
// unknown quote currency fall back to the full symbol as the base asset.
func Normalize(rows []Row, quotes []string) ([]domain.Trade, error) {
	return normalize(rows, quotes, false)
}

// NormalizeStrict behaves like Normalize but fails the run on any pair
// symbol whose quote currency cannot be determined.
func NormalizeStrict(rows []Row, quotes []string) ([]domain.Trade, error) {
	return normalize(rows, quotes, true)
}

func normalize(rows []Row, quotes []string, strict bool) ([]domain.Trade, error) {
	trades := make([]domain.Trade, 0, len(rows))
	for _, row := range rows {
		trade, err := normalizeRow(row, quotes)
		if err != nil {
			return nil, err
		}
		if strict && trade.Pair.Quote == domain.UnknownQuote {
			return nil, errors.Wrapf(&domain.DecompositionError{Symbol: row.Pair}, "%s row %d", row.Origin, row.Line)
		}
		trades = append(trades, trade)
	}
	domain.SortTradesByTime(trades)
	return trades, nil
}

func normalizeRow(row Row, quotes []string) (domain.Trade, error) {
	side, err := domain.ParseSide(row.Side)
	if err != nil {
		return domain.Trade{}, &MalformedFieldError{Origin: row.Origin, Line: row.Line, Field: "Side", Value: row.Side, Reason: "must be BUY or SELL"}
	}

	price, err := decimal.NewFromString(row.Price)
	if err != nil {
		return domain.Trade{}, &MalformedFieldError{Origin: row.Origin, Line: row.Line, Field: "Price", Value: row.Price, Reason: "not a decimal number"}
	}
	if price.IsNegative() {
		return domain.Trade{}, &MalformedFieldError{Origin: row.Origin, Line: row.Line, Field: "Price", Value: row.Price, Reason: "must not be negative"}
	}

	amount, err := extractAmount(row, "Executed", row.Executed)
	if err != nil {
		return domain.Trade{}, err
	}
	// The Amount column is validated for provenance but the engine matches
	// on the executed quantity.
	if _, err := extractAmount(row, "Amount", row.Amount); err != nil {
		return domain.Trade{}, err
	}

	ts, err := parseDate(row.Date)
	if err != nil {
		return domain.Trade{}, &MalformedFieldError{Origin: row.Origin, Line: row.Line, Field: "Date(UTC)", Value: row.Date, Reason: "not a recognized date-time"}
	}

	return domain.Trade{
		Pair:   domain.SplitSymbol(row.Pair, quotes),
		Side:   side,
		Price:  price,
		Amount: amount,
		Time:   ts,
	}, nil
}

func extractAmount(row Row, field, value string) (decimal.Decimal, error) {
	token := numericToken.FindString(value)
	if token == "" {
		return decimal.Decimal{}, &MalformedFieldError{Origin: row.Origin, Line: row.Line, Field: field, Value: value, Reason: "no numeric token found"}
	}
	amount, err := decimal.NewFromString(token)
	if err != nil {
		return decimal.Decimal{}, &MalformedFieldError{Origin: row.Origin, Line: row.Line, Field: field, Value: value, Reason: "not a decimal number"}
	}
	return amount, nil
}

func parseDate(value string) (time.Time, error) {
	var err error
	for _, layout := range dateLayouts {
		var ts time.Time
		ts, err = time.ParseInLocation(layout, value, time.UTC)
		if err == nil {
			return ts, nil
		}
	}
	return time.Time{}, err
}
