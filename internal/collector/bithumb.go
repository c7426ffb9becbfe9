package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"BoxScreener/internal/model"
)

const bithumbOK = "0000"

// BithumbFetcher implements Fetcher using the Bithumb public REST API.
type BithumbFetcher struct {
	BaseURL string
	req     *requester
}

// NewBithumbFetcher creates a fetcher with optional proxy support.
func NewBithumbFetcher(baseURL, proxyURL string, limiter *Limiter, retry RetryPolicy) *BithumbFetcher {
	if baseURL == "" {
		baseURL = "https://api.bithumb.com"
	}
	return &BithumbFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		req:     &requester{client: newHTTPClient(proxyURL), limiter: limiter, retry: retry},
	}
}

func (f *BithumbFetcher) Name() model.Exchange { return model.ExchangeBithumb }

type bithumbTicker struct {
	ClosingPrice     string `json:"closing_price"`
	AccTradeValue24H string `json:"acc_trade_value_24H"`
}

func (f *BithumbFetcher) ListMarkets(ctx context.Context) ([]model.Market, error) {
	var resp struct {
		Status string                     `json:"status"`
		Data   map[string]json.RawMessage `json:"data"`
	}
	if err := f.req.getJSON(ctx, f.BaseURL+"/public/ticker/ALL_KRW", &resp); err != nil {
		return nil, fmt.Errorf("bithumb tickers: %w", err)
	}
	if resp.Status != bithumbOK {
		return nil, fmt.Errorf("bithumb tickers: status %s", resp.Status)
	}

	markets := make([]model.Market, 0, len(resp.Data))
	for symbol, raw := range resp.Data {
		if symbol == "date" {
			continue
		}
		var t bithumbTicker
		if err := json.Unmarshal(raw, &t); err != nil {
			continue
		}
		markets = append(markets, model.Market{
			Symbol:   symbol,
			Exchange: model.ExchangeBithumb,
			Volume:   toFloat(t.AccTradeValue24H),
			Price:    toFloat(t.ClosingPrice),
		})
	}
	// map iteration order is random
	sort.Slice(markets, func(i, j int) bool { return markets[i].Symbol < markets[j].Symbol })
	return markets, nil
}

func bithumbInterval(tf model.Timeframe) (string, error) {
	switch tf {
	case model.TF5m, model.TF30m, model.TF1h, model.TF4h:
		return string(tf), nil
	case model.TF1d:
		return "24h", nil
	default:
		return "", fmt.Errorf("bithumb: unsupported timeframe %q", tf)
	}
}

func (f *BithumbFetcher) FetchCandles(ctx context.Context, symbol string, tf model.Timeframe, count int) ([]model.OHLCV, error) {
	interval, err := bithumbInterval(tf)
	if err != nil {
		return nil, err
	}
	endpoint := fmt.Sprintf("%s/public/candlestick/%s_KRW/%s", f.BaseURL, url.PathEscape(symbol), interval)

	var resp struct {
		Status string          `json:"status"`
		Data   [][]interface{} `json:"data"`
	}
	if err := f.req.getJSON(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("bithumb candles %s %s: %w", symbol, tf, err)
	}
	if resp.Status != bithumbOK {
		return nil, fmt.Errorf("bithumb candles %s %s: status %s", symbol, tf, resp.Status)
	}

	// rows are [time, open, close, high, low, volume]
	bars := make([]model.OHLCV, 0, len(resp.Data))
	for _, row := range resp.Data {
		if len(row) < 6 {
			continue
		}
		bars = append(bars, model.OHLCV{
			Time:   time.UnixMilli(int64(toFloat(row[0]))),
			Open:   toFloat(row[1]),
			Close:  toFloat(row[2]),
			High:   toFloat(row[3]),
			Low:    toFloat(row[4]),
			Volume: toFloat(row[5]),
		})
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	if count > 0 && len(bars) > count {
		bars = bars[len(bars)-count:]
	}
	return bars, nil
}
