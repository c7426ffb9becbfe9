package model

import "time"

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Timeframe is a candle interval label as it appears in the report.
type Timeframe string

const (
	TF5m  Timeframe = "5m"
	TF30m Timeframe = "30m"
	TF1h  Timeframe = "1h"
	TF4h  Timeframe = "4h"
	TF1d  Timeframe = "1d"
)

// Timeframes lists every screened interval, shortest first.
var Timeframes = []Timeframe{TF5m, TF30m, TF1h, TF4h, TF1d}

// Exchange identifies a market venue.
type Exchange string

const (
	ExchangeUpbit   Exchange = "upbit"
	ExchangeBithumb Exchange = "bithumb"
)

// Market is one tradable symbol in the screening universe.
type Market struct {
	Symbol   string
	Exchange Exchange
	Volume   float64 // 24h traded value in KRW
	Price    float64 // last traded price, 0 when the lister did not provide one
}

// SeriesSet holds the candle series of one market, keyed by timeframe.
// A missing or empty entry means the fetch failed or returned nothing.
type SeriesSet map[Timeframe][]OHLCV

// LastClose returns the close of the newest bar, or 0 for an empty series.
func LastClose(bars []OHLCV) float64 {
	if len(bars) == 0 {
		return 0
	}
	return bars[len(bars)-1].Close
}
