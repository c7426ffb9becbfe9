package collector

import (
	"context"

	"BoxScreener/internal/model"
)

// Fetcher defines the interface for fetching market data from one exchange.
type Fetcher interface {
	// ListMarkets returns the KRW markets of the exchange with their 24h traded value.
	ListMarkets(ctx context.Context) ([]model.Market, error)
	// FetchCandles returns up to count bars, oldest first.
	FetchCandles(ctx context.Context, symbol string, tf model.Timeframe, count int) ([]model.OHLCV, error)
	Name() model.Exchange
}
