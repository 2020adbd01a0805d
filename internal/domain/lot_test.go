package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestClosedLotPercentReturn(t *testing.T) {
	lot := ClosedLot{
		OpenPrice: decimal.NewFromInt(10),
		Amount:    decimal.NewFromInt(2),
		Profit:    decimal.NewFromInt(5),
	}
	pct, ok := lot.PercentReturn()
	require.True(t, ok)
	require.True(t, pct.Equal(decimal.NewFromInt(25)), "got %s", pct)
}

func TestClosedLotPercentReturnUndefinedOnZeroBasis(t *testing.T) {
	t.Run("zero open price", func(t *testing.T) {
		lot := ClosedLot{
			OpenPrice: decimal.Zero,
			Amount:    decimal.NewFromInt(2),
			Profit:    decimal.NewFromInt(5),
		}
		_, ok := lot.PercentReturn()
		require.False(t, ok)
	})

	t.Run("zero amount", func(t *testing.T) {
		lot := ClosedLot{
			OpenPrice: decimal.NewFromInt(10),
			Amount:    decimal.Zero,
		}
		_, ok := lot.PercentReturn()
		require.False(t, ok)
	})
}

func TestOrphanSellFingerprint(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	first := OrphanSell{ID: "a", Base: "BTC", Price: decimal.NewFromInt(100), Amount: decimal.NewFromInt(2), Time: ts}
	second := OrphanSell{ID: "b", Base: "BTC", Price: decimal.NewFromInt(100), Amount: decimal.NewFromInt(2), Time: ts}

	// the fingerprint ignores the per-run ID
	require.Equal(t, first.Fingerprint(), second.Fingerprint())

	other := second
	other.Amount = decimal.NewFromInt(3)
	require.NotEqual(t, first.Fingerprint(), other.Fingerprint())
}
