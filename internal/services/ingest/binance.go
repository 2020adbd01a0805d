package ingest

import (
	"context"
	"time"

	"github.com/adshao/go-binance/v2"
	"github.com/pkg/errors"

	"lotview/internal/domain"
	"lotview/pkg/retry"
)

const exportTimeLayout = "2006-01-02 15:04:05"

// BinanceSource fetches account trade history from the Binance API and
// presents it as the same raw rows a CSV export would yield.
type BinanceSource struct {
	client  *binance.Client
	symbols []string
	backoff *retry.Backoff
}

// NewBinanceSource creates a source fetching trade history for the given symbols.
func NewBinanceSource(client *binance.Client, symbols []string) *BinanceSource {
	return &BinanceSource{
		client:  client,
		symbols: symbols,
		backoff: retry.New(),
	}
}

// Rows fetches trades for every configured symbol.
func (s *BinanceSource) Rows(ctx context.Context) ([]Row, error) {
	var rows []Row
	for _, symbol := range s.symbols {
		trades, err := retry.Fetch(ctx, s.backoff, func(ctx context.Context) ([]*binance.TradeV3, error) {
			return s.client.NewListTradesService().Symbol(symbol).Do(ctx)
		})
		if err != nil {
			return nil, errors.Wrapf(err, "fetch binance trade history for %s", symbol)
		}

		for _, trade := range trades {
			side := string(domain.SideSell)
			if trade.IsBuyer {
				side = string(domain.SideBuy)
			}
			rows = append(rows, Row{
				Date:     time.Unix(0, trade.Time*int64(time.Millisecond)).UTC().Format(exportTimeLayout),
				Pair:     trade.Symbol,
				Side:     side,
				Price:    trade.Price,
				Executed: trade.Quantity,
				Amount:   trade.QuoteQuantity,
				Origin:   "binance",
			})
		}
	}
	return rows, nil
}
