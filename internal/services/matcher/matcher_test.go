package matcher

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"lotview/internal/domain"
)

func at(offset int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(offset) * time.Hour)
}

func trade(base string, side domain.Side, price, amount int64, offset int) domain.Trade {
	return domain.Trade{
		Pair:   domain.Pair{Base: base, Quote: "USDT"},
		Side:   side,
		Price:  decimal.NewFromInt(price),
		Amount: decimal.NewFromInt(amount),
		Time:   at(offset),
	}
}

func TestMatchFIFOOrdering(t *testing.T) {
	result := Match([]domain.Trade{
		trade("BTC", domain.SideBuy, 10, 1, 0),
		trade("BTC", domain.SideBuy, 20, 1, 1),
		trade("BTC", domain.SideSell, 30, 1, 2),
	})

	require.Len(t, result.Closed, 1)
	closed := result.Closed[0]
	require.True(t, closed.OpenPrice.Equal(decimal.NewFromInt(10)), "oldest lot must close first, got open price %s", closed.OpenPrice)
	require.True(t, closed.Profit.Equal(decimal.NewFromInt(20)), "got %s", closed.Profit)

	// the price-20 lot stays open
	require.Len(t, result.Open["BTC"], 1)
	require.True(t, result.Open["BTC"][0].Price.Equal(decimal.NewFromInt(20)))
}

func TestMatchPartialLotSplit(t *testing.T) {
	result := Match([]domain.Trade{
		trade("BTC", domain.SideBuy, 10, 3, 0),
		trade("BTC", domain.SideSell, 15, 1, 1),
	})

	require.Len(t, result.Closed, 1)
	closed := result.Closed[0]
	require.True(t, closed.Amount.Equal(decimal.NewFromInt(1)))
	require.True(t, closed.Profit.Equal(decimal.NewFromInt(5)))

	require.Len(t, result.Open["BTC"], 1)
	remaining := result.Open["BTC"][0]
	require.True(t, remaining.Amount.Equal(decimal.NewFromInt(2)))
	require.True(t, remaining.Price.Equal(decimal.NewFromInt(10)))
}

func TestMatchSellSpansMultipleLots(t *testing.T) {
	result := Match([]domain.Trade{
		trade("BTC", domain.SideBuy, 10, 1, 0),
		trade("BTC", domain.SideBuy, 20, 1, 1),
		trade("BTC", domain.SideSell, 30, 2, 2),
	})

	require.Len(t, result.Closed, 2)
	// each slice is attributed at its own open price, not a blended basis
	require.True(t, result.Closed[0].OpenPrice.Equal(decimal.NewFromInt(10)))
	require.True(t, result.Closed[0].Profit.Equal(decimal.NewFromInt(20)))
	require.True(t, result.Closed[1].OpenPrice.Equal(decimal.NewFromInt(20)))
	require.True(t, result.Closed[1].Profit.Equal(decimal.NewFromInt(10)))
	require.Empty(t, result.Open)
	require.Empty(t, result.Orphans)
}

func TestMatchOrphanDetection(t *testing.T) {
	result := Match([]domain.Trade{
		trade("ETH", domain.SideSell, 100, 2, 0),
	})

	require.Empty(t, result.Closed)
	require.Len(t, result.Orphans, 1)
	orphan := result.Orphans[0]
	require.Equal(t, "ETH", orphan.Base)
	require.True(t, orphan.Amount.Equal(decimal.NewFromInt(2)))
	require.NotEmpty(t, orphan.ID)
}

func TestMatchSellExceedingOpenLots(t *testing.T) {
	// the matched portion closes normally, the excess becomes an orphan
	// for the remainder instead of being silently dropped
	result := Match([]domain.Trade{
		trade("BTC", domain.SideBuy, 10, 1, 0),
		trade("BTC", domain.SideSell, 15, 3, 1),
	})

	require.Len(t, result.Closed, 1)
	require.True(t, result.Closed[0].Amount.Equal(decimal.NewFromInt(1)))
	require.Len(t, result.Orphans, 1)
	require.True(t, result.Orphans[0].Amount.Equal(decimal.NewFromInt(2)))
	require.Empty(t, result.Open)
}

func TestMatchAmountConservation(t *testing.T) {
	trades := []domain.Trade{
		trade("BTC", domain.SideBuy, 10, 5, 0),
		trade("BTC", domain.SideBuy, 12, 3, 1),
		trade("BTC", domain.SideSell, 15, 4, 2),
		trade("BTC", domain.SideBuy, 11, 2, 3),
		trade("BTC", domain.SideSell, 16, 3, 4),
	}
	result := Match(trades)

	totalBuys := decimal.Zero
	for _, tr := range trades {
		if tr.Side == domain.SideBuy {
			totalBuys = totalBuys.Add(tr.Amount)
		}
	}

	totalClosed := decimal.Zero
	for _, closed := range result.Closed {
		totalClosed = totalClosed.Add(closed.Amount)
	}
	totalOpen := result.Open.TotalOpenAmount("BTC")

	require.True(t, totalClosed.Add(totalOpen).Equal(totalBuys),
		"closed %s + open %s != bought %s", totalClosed, totalOpen, totalBuys)
}

func TestMatchAssetsAreIndependent(t *testing.T) {
	result := Match([]domain.Trade{
		trade("BTC", domain.SideBuy, 10, 1, 0),
		trade("ETH", domain.SideSell, 100, 1, 1),
	})

	// the ETH sell must not consume the BTC lot
	require.Empty(t, result.Closed)
	require.Len(t, result.Orphans, 1)
	require.Equal(t, "ETH", result.Orphans[0].Base)
	require.Len(t, result.Open["BTC"], 1)
}

func TestMatchZeroAmountSell(t *testing.T) {
	// a sell of nothing has no unmatched quantity, so no orphan either
	result := Match([]domain.Trade{
		trade("BTC", domain.SideSell, 100, 0, 0),
	})
	require.Empty(t, result.Closed)
	require.Empty(t, result.Orphans)
}

func TestMatchEmptyInput(t *testing.T) {
	result := Match(nil)
	require.Empty(t, result.Closed)
	require.Empty(t, result.Open)
	require.Empty(t, result.Orphans)
}

func TestPositionBookSummary(t *testing.T) {
	result := Match([]domain.Trade{
		trade("BTC", domain.SideBuy, 10, 1, 0),
		trade("BTC", domain.SideBuy, 20, 3, 1),
	})

	summaries := result.Open.Summary()
	require.Len(t, summaries, 1)
	s := summaries[0]
	require.Equal(t, "BTC", s.Base)
	// weighted mean: (10*1 + 20*3) / 4 = 17.5
	require.True(t, s.MeanPrice.Equal(decimal.NewFromFloat(17.5)), "got %s", s.MeanPrice)
	require.True(t, s.Amount.Equal(decimal.NewFromInt(4)))
	require.True(t, s.Notional.Equal(decimal.NewFromInt(70)))
}

func TestMergeManualOrdersByCloseTime(t *testing.T) {
	closed := []domain.ClosedLot{
		{Base: "BTC", CloseTime: at(5)},
	}
	manual := []domain.ClosedLot{
		{Base: "ETH", CloseTime: at(2), Manual: true},
	}

	merged := MergeManual(closed, manual)
	require.Len(t, merged, 2)
	require.Equal(t, "ETH", merged[0].Base)
	require.Equal(t, "BTC", merged[1].Base)
}
