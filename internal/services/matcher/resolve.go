package matcher

import (
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"lotview/internal/domain"
)

// Resolve synthesizes a closed lot for an orphan sell from externally
// supplied cost basis data. The full orphan quantity is closed at the given
// buy price; the lot never re-enters the position book. Resolving one orphan
// does not touch the matched or open state of any other asset.
func Resolve(orphan domain.OrphanSell, buyPrice decimal.Decimal, buyDate time.Time) (domain.ClosedLot, error) {
	if buyPrice.IsNegative() {
		return domain.ClosedLot{}, errors.Errorf("buy price must not be negative, got %s", buyPrice.String())
	}

	return domain.ClosedLot{
		Base:       orphan.Base,
		OpenPrice:  buyPrice,
		ClosePrice: orphan.Price,
		Amount:     orphan.Amount,
		OpenTime:   buyDate,
		CloseTime:  orphan.Time,
		Profit:     orphan.Amount.Mul(orphan.Price.Sub(buyPrice)),
		Manual:     true,
	}, nil
}
