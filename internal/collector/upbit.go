package collector

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"BoxScreener/internal/model"
)

const (
	upbitQuote      = "KRW-"
	upbitTickerPage = 100
	upbitMaxCount   = 200
)

// UpbitFetcher implements Fetcher using the Upbit public REST API.
type UpbitFetcher struct {
	BaseURL string
	req     *requester
}

// NewUpbitFetcher creates a fetcher with optional proxy support.
func NewUpbitFetcher(baseURL, proxyURL string, limiter *Limiter, retry RetryPolicy) *UpbitFetcher {
	if baseURL == "" {
		baseURL = "https://api.upbit.com"
	}
	return &UpbitFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		req:     &requester{client: newHTTPClient(proxyURL), limiter: limiter, retry: retry},
	}
}

func (f *UpbitFetcher) Name() model.Exchange { return model.ExchangeUpbit }

type upbitMarket struct {
	Market string `json:"market"`
}

type upbitTicker struct {
	Market           string  `json:"market"`
	TradePrice       float64 `json:"trade_price"`
	AccTradePrice24h float64 `json:"acc_trade_price_24h"`
}

type upbitCandle struct {
	CandleDateTimeUTC    string  `json:"candle_date_time_utc"`
	OpeningPrice         float64 `json:"opening_price"`
	HighPrice            float64 `json:"high_price"`
	LowPrice             float64 `json:"low_price"`
	TradePrice           float64 `json:"trade_price"`
	CandleAccTradeVolume float64 `json:"candle_acc_trade_volume"`
	Timestamp            int64   `json:"timestamp"`
}

func (f *UpbitFetcher) ListMarkets(ctx context.Context) ([]model.Market, error) {
	var all []upbitMarket
	if err := f.req.getJSON(ctx, f.BaseURL+"/v1/market/all", &all); err != nil {
		return nil, fmt.Errorf("upbit market list: %w", err)
	}
	var codes []string
	for _, m := range all {
		if strings.HasPrefix(m.Market, upbitQuote) {
			codes = append(codes, m.Market)
		}
	}

	markets := make([]model.Market, 0, len(codes))
	for start := 0; start < len(codes); start += upbitTickerPage {
		end := start + upbitTickerPage
		if end > len(codes) {
			end = len(codes)
		}
		var tickers []upbitTicker
		endpoint := fmt.Sprintf("%s/v1/ticker?markets=%s", f.BaseURL, url.QueryEscape(strings.Join(codes[start:end], ",")))
		if err := f.req.getJSON(ctx, endpoint, &tickers); err != nil {
			return nil, fmt.Errorf("upbit tickers: %w", err)
		}
		for _, t := range tickers {
			markets = append(markets, model.Market{
				Symbol:   strings.TrimPrefix(t.Market, upbitQuote),
				Exchange: model.ExchangeUpbit,
				Volume:   t.AccTradePrice24h,
				Price:    t.TradePrice,
			})
		}
	}
	return markets, nil
}

func upbitCandlePath(tf model.Timeframe) (string, error) {
	switch tf {
	case model.TF5m:
		return "/v1/candles/minutes/5", nil
	case model.TF30m:
		return "/v1/candles/minutes/30", nil
	case model.TF1h:
		return "/v1/candles/minutes/60", nil
	case model.TF4h:
		return "/v1/candles/minutes/240", nil
	case model.TF1d:
		return "/v1/candles/days", nil
	default:
		return "", fmt.Errorf("upbit: unsupported timeframe %q", tf)
	}
}

func (f *UpbitFetcher) FetchCandles(ctx context.Context, symbol string, tf model.Timeframe, count int) ([]model.OHLCV, error) {
	path, err := upbitCandlePath(tf)
	if err != nil {
		return nil, err
	}
	if count <= 0 || count > upbitMaxCount {
		count = upbitMaxCount
	}
	endpoint := fmt.Sprintf("%s%s?market=%s%s&count=%d", f.BaseURL, path, upbitQuote, url.QueryEscape(symbol), count)

	var raw []upbitCandle
	if err := f.req.getJSON(ctx, endpoint, &raw); err != nil {
		return nil, fmt.Errorf("upbit candles %s %s: %w", symbol, tf, err)
	}

	bars := make([]model.OHLCV, 0, len(raw))
	for _, c := range raw {
		ts, err := time.ParseInLocation("2006-01-02T15:04:05", c.CandleDateTimeUTC, time.UTC)
		if err != nil {
			ts = time.UnixMilli(c.Timestamp)
		}
		bars = append(bars, model.OHLCV{
			Time:   ts,
			Open:   c.OpeningPrice,
			High:   c.HighPrice,
			Low:    c.LowPrice,
			Close:  c.TradePrice,
			Volume: c.CandleAccTradeVolume,
		})
	}
	// Upbit answers newest first
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}
