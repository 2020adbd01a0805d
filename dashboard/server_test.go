package dashboard

import (
	"encoding/json"
	"math"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"lotview/internal/services/stats"
)

func testServer() *Server {
	return NewServer(":0", Data{
		Summary: stats.Summary{TotalClosed: 2, TotalProfit: decimal.NewFromInt(13), WinRate: decimal.NewFromInt(50)},
		Cumulative: []stats.CumulativePoint{
			{Time: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Value: decimal.NewFromInt(4)},
		},
		Buckets: []stats.Bucket{
			{Key: "2024-03", Count: 1, Sum: decimal.NewFromInt(4), Mean: decimal.NewFromInt(4), MeanOK: true, StdDev: math.NaN()},
			{Key: "2024-04", Count: 1, Sum: decimal.Zero, Mean: decimal.Zero, StdDev: math.NaN()},
		},
		Monthly: []stats.MonthlyPercent{{Month: "2024-03", Percent: decimal.NewFromInt(9)}},
		Distribution: []stats.DistributionBin{
			{Lower: decimal.NewFromInt(0), Upper: decimal.NewFromInt(2), Count: 1},
			{Lower: decimal.NewFromInt(2), Upper: decimal.NewFromInt(4), Count: 3},
		},
	})
}

func TestHandleBucketsNaNStdDev(t *testing.T) {
	server := testServer()
	rec := httptest.NewRecorder()
	server.mux().ServeHTTP(rec, httptest.NewRequest("GET", "/api/buckets", nil))

	require.Equal(t, 200, rec.Code)
	var buckets []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &buckets))
	require.Len(t, buckets, 2)
	require.Nil(t, buckets[0]["stdDev"], "NaN std dev must serialize as null")
	require.Equal(t, "2024-03", buckets[0]["key"])
	require.Equal(t, "4", buckets[0]["mean"])
	require.Nil(t, buckets[1]["mean"], "undefined mean must serialize as null, not zero")
}

func TestHandleDistribution(t *testing.T) {
	server := testServer()
	rec := httptest.NewRecorder()
	server.mux().ServeHTTP(rec, httptest.NewRequest("GET", "/api/distribution", nil))

	require.Equal(t, 200, rec.Code)
	var bins []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bins))
	require.Len(t, bins, 2)
	require.Equal(t, "0", bins[0]["lower"])
	require.Equal(t, float64(3), bins[1]["count"])
}

func TestHandleCumulative(t *testing.T) {
	server := testServer()
	rec := httptest.NewRecorder()
	server.mux().ServeHTTP(rec, httptest.NewRequest("GET", "/api/cumulative", nil))

	require.Equal(t, 200, rec.Code)
	var points []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &points))
	require.Len(t, points, 1)
	require.Equal(t, "4", points[0]["value"])
}

func TestHandleIndex(t *testing.T) {
	server := testServer()
	rec := httptest.NewRecorder()
	server.mux().ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	require.Equal(t, 200, rec.Code)
	require.Contains(t, rec.Body.String(), "Cumulative Profit")

	rec = httptest.NewRecorder()
	server.mux().ServeHTTP(rec, httptest.NewRequest("GET", "/missing", nil))
	require.Equal(t, 404, rec.Code)
}
