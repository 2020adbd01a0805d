package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestCSVSourceCombinesFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "2024-02.csv",
		"Date(UTC),Pair,Side,Price,Executed,Amount\n"+
			"2024-02-01 10:00:00,BTCUSDT,BUY,40000,0.5BTC,20000USDT\n")
	writeFile(t, dir, "2024-01.csv",
		"Date(UTC),Pair,Side,Price,Executed,Amount\n"+
			"2024-01-15 09:00:00,ETHUSDT,SELL,2500,2ETH,5000USDT\n")
	writeFile(t, dir, "notes.txt", "not a csv\n")

	rows, err := NewCSVSource(dir).Rows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// lexical file order is preserved
	require.Equal(t, "2024-01.csv", rows[0].Origin)
	require.Equal(t, "ETHUSDT", rows[0].Pair)
	require.Equal(t, 2, rows[0].Line)
	require.Equal(t, "2024-02.csv", rows[1].Origin)
	require.Equal(t, "0.5BTC", rows[1].Executed)
}

func TestCSVSourceShuffledColumns(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "trades.csv",
		"Pair,Date(UTC),Amount,Side,Executed,Price\n"+
			"BTCUSDT,2024-02-01 10:00:00,20000USDT,BUY,0.5BTC,40000\n")

	rows, err := NewCSVSource(dir).Rows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "BTCUSDT", rows[0].Pair)
	require.Equal(t, "40000", rows[0].Price)
	require.Equal(t, "BUY", rows[0].Side)
}

func TestCSVSourceMissingColumn(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "trades.csv", "Date(UTC),Pair,Side,Price,Executed\nx,y,z,1,2\n")

	_, err := NewCSVSource(dir).Rows(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "Amount")
}

func TestCSVSourceEmptyDir(t *testing.T) {
	rows, err := NewCSVSource(t.TempDir()).Rows(context.Background())
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestCSVSourceMissingDir(t *testing.T) {
	_, err := NewCSVSource(filepath.Join(t.TempDir(), "nope")).Rows(context.Background())
	require.Error(t, err)
}
