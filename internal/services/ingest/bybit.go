package ingest

import (
	"context"
	"strconv"
	"time"

	"github.com/hirokisan/bybit/v2"
	"github.com/pkg/errors"

	"lotview/internal/domain"
	"lotview/pkg/retry"
)

// BybitSource fetches spot execution history from the Bybit v5 API and
// presents it as raw trade rows.
type BybitSource struct {
	client  *bybit.Client
	symbols []string
	backoff *retry.Backoff
}

// NewBybitSource creates a source fetching execution history for the given symbols.
func NewBybitSource(client *bybit.Client, symbols []string) *BybitSource {
	return &BybitSource{
		client:  client,
		symbols: symbols,
		backoff: retry.New(),
	}
}

// Rows fetches executions for every configured symbol, following pagination
// cursors until exhausted.
func (s *BybitSource) Rows(ctx context.Context) ([]Row, error) {
	var rows []Row
	for _, symbol := range s.symbols {
		sym := bybit.SymbolV5(symbol)
		cursor := ""
		for {
			param := bybit.V5GetExecutionParam{
				Category: bybit.CategoryV5Spot,
				Symbol:   &sym,
			}
			if cursor != "" {
				param.Cursor = &cursor
			}

			resp, err := retry.Fetch(ctx, s.backoff, func(ctx context.Context) (*bybit.V5GetExecutionListResponse, error) {
				return s.client.V5().Execution().GetExecutionList(param)
			})
			if err != nil {
				return nil, errors.Wrapf(err, "fetch bybit execution history for %s", symbol)
			}

			for _, execution := range resp.Result.List {
				row, err := bybitExecutionRow(execution)
				if err != nil {
					return nil, errors.Wrapf(err, "bybit execution for %s", symbol)
				}
				rows = append(rows, row)
			}

			cursor = resp.Result.NextPageCursor
			if cursor == "" {
				break
			}
		}
	}
	return rows, nil
}

func bybitExecutionRow(execution bybit.V5GetExecutionListItem) (Row, error) {
	millis, err := strconv.ParseInt(execution.ExecTime, 10, 64)
	if err != nil {
		return Row{}, errors.Wrapf(err, "parse execution time %q", execution.ExecTime)
	}

	side := string(domain.SideSell)
	if execution.Side == bybit.SideBuy {
		side = string(domain.SideBuy)
	}

	return Row{
		Date:     time.Unix(0, millis*int64(time.Millisecond)).UTC().Format(exportTimeLayout),
		Pair:     string(execution.Symbol),
		Side:     side,
		Price:    execution.ExecPrice,
		Executed: execution.ExecQty,
		Amount:   execution.ExecValue,
		Origin:   "bybit",
	}, nil
}
