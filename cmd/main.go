// Command lotview reconstructs FIFO lot matching over a chronological log of
// BUY/SELL trade executions and reports realized profit per closed lot,
// open exposure, aggregate statistics and time-bucketed profit summaries.
// Sells with no known prior buy are surfaced as unresolved and their missing
// cost basis is collected through an interactive form.
//
// Usage:
//
//	lotview --config config.yaml
//	lotview --data ./exports --period month --value absolute
//	lotview --source binance --symbols BTCUSDT,ETHUSDT
//
// Required environment variables:
//
//	For --source binance: BINANCE_API_KEY, BINANCE_API_SECRET
//	For --source bybit: BYBIT_API_KEY, BYBIT_API_SECRET
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"lotview/config"
	"lotview/dashboard"
	"lotview/internal/clients"
	"lotview/internal/domain"
	"lotview/internal/report"
	"lotview/internal/services/ingest"
	"lotview/internal/services/matcher"
	"lotview/internal/services/stats"
	"lotview/internal/storage/resolutions"
	"lotview/internal/tui"
)

func main() {
	cfg, err := config.Get()
	if err != nil {
		log.Fatal(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("run failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	source, err := buildSource(cfg)
	if err != nil {
		return err
	}

	rows, err := source.Rows(ctx)
	if err != nil {
		return err
	}
	logger.Info("loaded trade rows", zap.Int("rows", len(rows)), zap.String("source", cfg.Source))

	normalize := ingest.Normalize
	if cfg.StrictPairs {
		normalize = ingest.NormalizeStrict
	}
	trades, err := normalize(rows, cfg.QuoteCurrencies)
	if err != nil {
		return err
	}

	result := matcher.Match(trades)
	logger.Info("matched trades",
		zap.Int("closed", len(result.Closed)),
		zap.Int("open_assets", len(result.Open)),
		zap.Int("orphans", len(result.Orphans)))

	manual, pending, err := resolveOrphans(cfg, logger, result.Orphans)
	if err != nil {
		return err
	}
	closed := matcher.MergeManual(result.Closed, manual)

	summary := stats.Summarize(closed)
	buckets := stats.Buckets(closed, cfg.Period, cfg.Value)
	monthly := stats.WeightedMonthlyPercent(closed)
	cumulative := stats.Cumulative(closed, cfg.Value)
	distribution := stats.Distribution(closed, cfg.Value, stats.DefaultDistributionBins)

	renderer := report.New(os.Stdout)
	renderer.OpenPositions(result.Open)
	renderer.ClosedPositions(closed)
	renderer.Orphans(pending)
	renderer.Summary(summary)
	renderer.BucketTable(buckets, cfg.Period, cfg.Value)
	renderer.MonthlyPercent(monthly)
	renderer.Totals(summary)

	if cfg.DashboardAddr == "" {
		return nil
	}

	server := dashboard.NewServer(cfg.DashboardAddr, dashboard.Data{
		Summary:      summary,
		Cumulative:   cumulative,
		Buckets:      buckets,
		Monthly:      monthly,
		Distribution: distribution,
	})
	logger.Info("dashboard listening", zap.String("addr", cfg.DashboardAddr))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if len(cfg.TLSDomains) > 0 {
			return server.StartWithAutoTLS(ctx, cfg.TLSDomains, "")
		}
		return server.Start(ctx)
	})
	return g.Wait()
}

func buildSource(cfg config.Config) (ingest.Source, error) {
	switch cfg.Source {
	case "binance":
		client, err := clients.NewBinanceFromEnv()
		if err != nil {
			return nil, err
		}
		return ingest.NewBinanceSource(client, cfg.Symbols), nil
	case "bybit":
		client, err := clients.NewBybitFromEnv()
		if err != nil {
			return nil, err
		}
		return ingest.NewBybitSource(client, cfg.Symbols), nil
	default:
		return ingest.NewCSVSource(cfg.DataDir), nil
	}
}

// resolveOrphans applies journaled resolutions first, then asks the user for
// the rest. Returns the synthesized closed lots and the orphans left pending.
func resolveOrphans(cfg config.Config, logger *zap.Logger, orphans []domain.OrphanSell) ([]domain.ClosedLot, []domain.OrphanSell, error) {
	if len(orphans) == 0 {
		return nil, nil, nil
	}

	var store *resolutions.WALStore
	journaled := make(map[string]resolutions.Resolution)
	if cfg.WALDir != "" {
		var err error
		store, err = resolutions.NewWALStore(cfg.WALDir)
		if err != nil {
			return nil, nil, err
		}
		defer store.Close()

		if journaled, err = store.All(); err != nil {
			return nil, nil, err
		}
	}

	var manual []domain.ClosedLot
	var pending []domain.OrphanSell
	for _, orphan := range orphans {
		resolution, ok := journaled[orphan.Fingerprint()]
		if !ok {
			pending = append(pending, orphan)
			continue
		}
		lot, err := matcher.Resolve(orphan, resolution.BuyPrice, resolution.BuyDate)
		if err != nil {
			return nil, nil, err
		}
		manual = append(manual, lot)
	}
	if replayed := len(manual); replayed > 0 {
		logger.Info("replayed journaled resolutions", zap.Int("count", replayed))
	}

	if cfg.NoInput || len(pending) == 0 {
		return manual, pending, nil
	}

	submissions, err := tui.CollectResolutions(pending)
	if err != nil {
		return nil, nil, err
	}

	submitted := make(map[string]struct{}, len(submissions))
	for _, submission := range submissions {
		lot, err := matcher.Resolve(submission.Orphan, submission.BuyPrice, submission.BuyDate)
		if err != nil {
			return nil, nil, err
		}
		manual = append(manual, lot)
		submitted[submission.Orphan.ID] = struct{}{}

		if store != nil {
			if err := store.Save(resolutions.Resolution{
				Fingerprint: submission.Orphan.Fingerprint(),
				Base:        submission.Orphan.Base,
				SellPrice:   submission.Orphan.Price,
				Amount:      submission.Orphan.Amount,
				SellTime:    submission.Orphan.Time,
				BuyPrice:    submission.BuyPrice,
				BuyDate:     submission.BuyDate,
				SubmittedAt: time.Now().UTC(),
			}); err != nil {
				return nil, nil, err
			}
		}
	}

	remaining := pending[:0]
	for _, orphan := range pending {
		if _, ok := submitted[orphan.ID]; !ok {
			remaining = append(remaining, orphan)
		}
	}
	return manual, remaining, nil
}
