// Package config loads run configuration from a YAML file or command-line
// flags, the flags covering the common CSV workflow.
package config

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"lotview/internal/domain"
	"lotview/internal/services/stats"
)

// Config is the resolved run configuration.
type Config struct {
	// Source of raw trade rows: csv, binance or bybit.
	Source string
	// DataDir folder holding *.csv trade exports (csv source).
	DataDir string
	// Symbols pair symbols to fetch (binance/bybit sources).
	Symbols []string
	// QuoteCurrencies priority-ordered quote suffix list.
	QuoteCurrencies []string
	// Period time granularity of the profit report.
	Period stats.Period
	// Value column aggregated by the profit report.
	Value stats.ValueColumn
	// WALDir resolution journal location; empty disables the journal.
	WALDir string
	// DashboardAddr address for the web dashboard; empty disables it.
	DashboardAddr string
	// TLSDomains enables ACME auto-TLS for the dashboard when non-empty.
	TLSDomains []string
	// StrictPairs fails the run on pair symbols with no known quote currency.
	StrictPairs bool
	// NoInput skips the interactive missing-buy form.
	NoInput bool
}

type configTmp struct {
	Source          string   `yaml:"source"`
	DataDir         string   `yaml:"data_dir"`
	Symbols         []string `yaml:"symbols"`
	QuoteCurrencies []string `yaml:"quote_currencies"`
	Period          string   `yaml:"period"`
	Value           string   `yaml:"value"`
	WALDir          string   `yaml:"wal_dir"`
	DashboardAddr   string   `yaml:"dashboard_addr"`
	TLSDomains      []string `yaml:"tls_domains"`
	StrictPairs     bool     `yaml:"strict_pairs"`
	NoInput         bool     `yaml:"no_input"`
}

// Get parses configuration, preferring --config when provided.
func Get() (Config, error) {
	configPath := flag.String("config", "", "path to yaml config")
	dataDir := flag.String("data", "data", "folder with csv trade exports")
	source := flag.String("source", "csv", "trade source: csv, binance or bybit")
	symbols := flag.String("symbols", "", "comma-separated pair symbols for api sources, example: BTCUSDT,ETHUSDT")
	quotes := flag.String("quotes", "", "comma-separated quote currency suffixes in priority order")
	period := flag.String("period", "month", "report granularity: month, trimester or year")
	value := flag.String("value", "absolute", "report value column: absolute or percentage")
	walDir := flag.String("waldir", "./wal/resolutions", "resolution journal directory, empty to disable")
	dashboardAddr := flag.String("dashboard", "", "dashboard listen address, example :8080, empty to disable")
	strictPairs := flag.Bool("strict", false, "fail on pair symbols with unknown quote currency")
	noInput := flag.Bool("noinput", false, "skip the interactive missing-buy form")
	flag.Parse()

	if *configPath != "" {
		return getYaml(*configPath)
	}

	return build(configTmp{
		Source:          *source,
		DataDir:         *dataDir,
		Symbols:         splitList(*symbols),
		QuoteCurrencies: splitList(*quotes),
		Period:          *period,
		Value:           *value,
		WALDir:          *walDir,
		DashboardAddr:   *dashboardAddr,
		StrictPairs:     *strictPairs,
		NoInput:         *noInput,
	})
}

func getYaml(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var tmp configTmp
	if err := yaml.Unmarshal(raw, &tmp); err != nil {
		return Config{}, fmt.Errorf("parse yaml config %s: %w", path, err)
	}
	return build(tmp)
}

func build(tmp configTmp) (Config, error) {
	cfg := Config{
		Source:          strings.ToLower(tmp.Source),
		DataDir:         tmp.DataDir,
		Symbols:         tmp.Symbols,
		QuoteCurrencies: tmp.QuoteCurrencies,
		WALDir:          tmp.WALDir,
		DashboardAddr:   tmp.DashboardAddr,
		TLSDomains:      tmp.TLSDomains,
		StrictPairs:     tmp.StrictPairs,
		NoInput:         tmp.NoInput,
	}

	if cfg.Source == "" {
		cfg.Source = "csv"
	}
	switch cfg.Source {
	case "csv":
		if cfg.DataDir == "" {
			cfg.DataDir = "data"
		}
	case "binance", "bybit":
		if len(cfg.Symbols) == 0 {
			return Config{}, fmt.Errorf("source %q requires at least one symbol", cfg.Source)
		}
	default:
		return Config{}, fmt.Errorf("unknown source %q, expected csv, binance or bybit", cfg.Source)
	}

	if len(cfg.QuoteCurrencies) == 0 {
		cfg.QuoteCurrencies = domain.DefaultQuoteCurrencies
	}

	var err error
	periodName := tmp.Period
	if periodName == "" {
		periodName = "month"
	}
	if cfg.Period, err = stats.ParsePeriod(periodName); err != nil {
		return Config{}, err
	}

	valueName := tmp.Value
	if valueName == "" {
		valueName = "absolute"
	}
	if cfg.Value, err = stats.ParseValueColumn(valueName); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
