// Package dashboard serves the run report over HTTP: a small chart page
// plus JSON endpoints for the cumulative profit curve and the bucketed
// summaries.
package dashboard

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"golang.org/x/crypto/acme/autocert"

	"lotview/internal/services/stats"
)

// Data is the immutable result set of one run, as served to the browser.
type Data struct {
	Summary      stats.Summary
	Cumulative   []stats.CumulativePoint
	Buckets      []stats.Bucket
	Monthly      []stats.MonthlyPercent
	Distribution []stats.DistributionBin
}

// Server exposes HTTP endpoints serving the HTML UI and report JSON.
type Server struct {
	Addr string
	Data Data
}

// NewServer creates a new dashboard server instance.
func NewServer(addr string, data Data) *Server {
	return &Server{Addr: addr, Data: data}
}

func (s *Server) mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/summary", s.handleSummary)
	mux.HandleFunc("/api/cumulative", s.handleCumulative)
	mux.HandleFunc("/api/buckets", s.handleBuckets)
	mux.HandleFunc("/api/monthly", s.handleMonthly)
	mux.HandleFunc("/api/distribution", s.handleDistribution)
	return mux
}

// Start runs the HTTP server (blocking) and shuts it down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	server := &http.Server{
		Addr:              s.Addr,
		Handler:           s.mux(),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// StartWithAutoTLS runs an HTTPS server with automatic TLS certificates via
// ACME, plus an HTTP server on port 80 for the HTTP-01 challenges.
func (s *Server) StartWithAutoTLS(ctx context.Context, domains []string, cacheDir string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(domains) == 0 {
		return fmt.Errorf("no domains provided for automatic TLS")
	}
	if cacheDir == "" {
		cacheDir = "cert-cache"
	}

	manager := &autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		HostPolicy: autocert.HostWhitelist(domains...),
		Cache:      autocert.DirCache(cacheDir),
	}

	httpSrv := &http.Server{
		Addr:              ":80",
		Handler:           manager.HTTPHandler(nil),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	tlsConfig := manager.TLSConfig()
	tlsConfig.MinVersion = tls.VersionTLS12

	httpsSrv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.mux(),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       120 * time.Second,
		TLSConfig:         tlsConfig,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
		_ = httpsSrv.Shutdown(shutdownCtx)
	}()

	errCh := make(chan error, 2)
	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	go func() {
		if err := httpsSrv.ListenAndServeTLS("", ""); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request) {
	summary := s.Data.Summary
	writeJSON(w, map[string]any{
		"totalClosed": summary.TotalClosed,
		"totalProfit": summary.TotalProfit,
		"winning":     summary.Winning,
		"losing":      summary.Losing,
		"winRate":     summary.WinRate,
		"meanProfit":  summary.MeanProfit,
		"meanPercent": nullableDecimal(summary.MeanPercent, summary.MeanPercentOK),
	})
}

func (s *Server) handleCumulative(w http.ResponseWriter, _ *http.Request) {
	type point struct {
		Time  time.Time `json:"time"`
		Value string    `json:"value"`
	}
	points := make([]point, 0, len(s.Data.Cumulative))
	for _, p := range s.Data.Cumulative {
		points = append(points, point{Time: p.Time, Value: p.Value.String()})
	}
	writeJSON(w, points)
}

func (s *Server) handleBuckets(w http.ResponseWriter, _ *http.Request) {
	type bucket struct {
		Key    string   `json:"key"`
		Count  int      `json:"count"`
		Sum    string   `json:"sum"`
		Mean   *string  `json:"mean"`
		StdDev *float64 `json:"stdDev"`
	}
	buckets := make([]bucket, 0, len(s.Data.Buckets))
	for _, b := range s.Data.Buckets {
		entry := bucket{Key: b.Key, Count: b.Count, Sum: b.Sum.String()}
		if b.MeanOK {
			mean := b.Mean.String()
			entry.Mean = &mean
		}
		if !math.IsNaN(b.StdDev) {
			stdDev := b.StdDev
			entry.StdDev = &stdDev
		}
		buckets = append(buckets, entry)
	}
	writeJSON(w, buckets)
}

func (s *Server) handleMonthly(w http.ResponseWriter, _ *http.Request) {
	type month struct {
		Month   string `json:"month"`
		Percent string `json:"percent"`
	}
	months := make([]month, 0, len(s.Data.Monthly))
	for _, m := range s.Data.Monthly {
		months = append(months, month{Month: m.Month, Percent: m.Percent.String()})
	}
	writeJSON(w, months)
}

func (s *Server) handleDistribution(w http.ResponseWriter, _ *http.Request) {
	type bin struct {
		Lower string `json:"lower"`
		Upper string `json:"upper"`
		Count int    `json:"count"`
	}
	bins := make([]bin, 0, len(s.Data.Distribution))
	for _, b := range s.Data.Distribution {
		bins = append(bins, bin{Lower: b.Lower.String(), Upper: b.Upper.String(), Count: b.Count})
	}
	writeJSON(w, bins)
}

func nullableDecimal(value fmt.Stringer, ok bool) any {
	if !ok {
		return nil
	}
	return value.String()
}
