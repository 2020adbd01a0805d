// Package resolutions persists submitted orphan-sell resolutions in an
// append-only WAL so a later run over the same trade set does not ask for
// the same missing cost basis twice. The journal is external input, like
// the trade files themselves: matching is still recomputed from scratch
// every run.
package resolutions

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/gowal"
)

const (
	// DefaultDir default journal location.
	DefaultDir = "./wal/resolutions"

	segmentLimit = 1000
	maxSegments  = 100

	resolutionKeyPrefix = "resolution_"
)

// Resolution is one submitted missing-buy record for an orphan sell.
type Resolution struct {
	// Fingerprint of the orphan sell this resolves (domain.OrphanSell.Fingerprint).
	Fingerprint string          `json:"fingerprint"`
	Base        string          `json:"base"`
	SellPrice   decimal.Decimal `json:"sell_price"`
	Amount      decimal.Decimal `json:"amount"`
	SellTime    time.Time       `json:"sell_time"`
	BuyPrice    decimal.Decimal `json:"buy_price"`
	BuyDate     time.Time       `json:"buy_date"`
	SubmittedAt time.Time       `json:"submitted_at"`
}

// WALStore persists resolutions in a WAL.
type WALStore struct {
	wal *gowal.Wal
	mu  sync.Mutex
}

// NewWALStore initializes a WAL-backed resolution journal.
func NewWALStore(dir string) (*WALStore, error) {
	if dir == "" {
		dir = DefaultDir
	}

	cfg := gowal.Config{
		Dir:              dir,
		Prefix:           "resolution_",
		SegmentThreshold: segmentLimit,
		MaxSegments:      maxSegments,
		IsInSyncDiskMode: true,
	}

	wal, err := gowal.NewWAL(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "init resolution WAL")
	}

	return &WALStore{wal: wal}, nil
}

// Save appends a resolution to the journal.
func (s *WALStore) Save(resolution Resolution) error {
	if s == nil || s.wal == nil {
		return errors.New("resolution store is not initialized")
	}
	if resolution.Fingerprint == "" {
		return errors.New("resolution fingerprint is required")
	}

	payload, err := json.Marshal(resolution)
	if err != nil {
		return errors.Wrap(err, "marshal resolution")
	}

	key := resolutionKeyPrefix + resolution.Fingerprint

	s.mu.Lock()
	defer s.mu.Unlock()

	nextIndex := s.wal.CurrentIndex() + 1
	return s.wal.Write(nextIndex, key, payload)
}

// All replays the journal and returns resolutions keyed by orphan
// fingerprint. When the same orphan was resolved more than once the latest
// submission wins.
func (s *WALStore) All() (map[string]Resolution, error) {
	if s == nil || s.wal == nil {
		return nil, errors.New("resolution store is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result := make(map[string]Resolution)
	for msg := range s.wal.Iterator() {
		if !strings.HasPrefix(msg.Key, resolutionKeyPrefix) {
			continue
		}

		var resolution Resolution
		if err := json.Unmarshal(msg.Value, &resolution); err != nil {
			return nil, errors.Wrap(err, "decode resolution")
		}
		result[resolution.Fingerprint] = resolution
	}
	return result, nil
}

// Close closes the underlying WAL.
func (s *WALStore) Close() error {
	if s == nil || s.wal == nil {
		return errors.New("resolution store is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Close()
}
