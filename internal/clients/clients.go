// Package clients builds authenticated exchange API clients from the
// environment.
package clients

import (
	"os"

	"github.com/adshao/go-binance/v2"
	"github.com/hirokisan/bybit/v2"
	"github.com/pkg/errors"
)

// NewBinanceFromEnv creates a Binance client from BINANCE_API_KEY and
// BINANCE_API_SECRET.
func NewBinanceFromEnv() (*binance.Client, error) {
	apiKey := os.Getenv("BINANCE_API_KEY")
	apiSecret := os.Getenv("BINANCE_API_SECRET")
	if apiKey == "" || apiSecret == "" {
		return nil, errors.New("BINANCE_API_KEY and BINANCE_API_SECRET environment variables must be set")
	}
	return binance.NewClient(apiKey, apiSecret), nil
}

// NewBybitFromEnv creates a Bybit client from BYBIT_API_KEY and
// BYBIT_API_SECRET.
func NewBybitFromEnv() (*bybit.Client, error) {
	apiKey := os.Getenv("BYBIT_API_KEY")
	apiSecret := os.Getenv("BYBIT_API_SECRET")
	if apiKey == "" || apiSecret == "" {
		return nil, errors.New("BYBIT_API_KEY and BYBIT_API_SECRET environment variables must be set")
	}
	return bybit.NewClient().WithAuth(apiKey, apiSecret), nil
}
