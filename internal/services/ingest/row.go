// Package ingest loads raw trade executions from CSV exports or exchange
// APIs and normalizes them into domain trades.
package ingest

import "context"

// Row is one raw trade record as exported by the exchange. All values are
// kept as strings until normalization; Executed and Amount may carry unit
// suffixes like "0.125 BTC".
type Row struct {
	Date     string
	Pair     string
	Side     string
	Price    string
	Executed string
	Amount   string

	// Origin provenance for error reporting, e.g. "trades-2024.csv" or
	// an exchange name.
	Origin string
	// Line 1-based row number within the origin, zero when not applicable.
	Line int
}

// Source produces raw trade rows from some backing store or API.
type Source interface {
	Rows(ctx context.Context) ([]Row, error)
}
