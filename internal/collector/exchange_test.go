package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"BoxScreener/internal/model"
)

func TestUpbitFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/market/all":
			w.Write([]byte(`[{"market":"KRW-AAA"},{"market":"BTC-AAA"},{"market":"KRW-BBB"}]`))
		case "/v1/ticker":
			if got := r.URL.Query().Get("markets"); got != "KRW-AAA,KRW-BBB" {
				t.Errorf("unexpected markets query %q", got)
			}
			w.Write([]byte(`[{"market":"KRW-AAA","trade_price":10.5,"acc_trade_price_24h":1000},
				{"market":"KRW-BBB","trade_price":20,"acc_trade_price_24h":3000}]`))
		case "/v1/candles/minutes/60":
			if r.URL.Query().Get("market") != "KRW-AAA" || r.URL.Query().Get("count") != "200" {
				t.Errorf("unexpected query %s", r.URL.RawQuery)
			}
			w.Write([]byte(`[
				{"candle_date_time_utc":"2024-01-01T02:00:00","opening_price":3,"high_price":4,"low_price":2,"trade_price":3.5,"candle_acc_trade_volume":30},
				{"candle_date_time_utc":"2024-01-01T01:00:00","opening_price":2,"high_price":3,"low_price":1,"trade_price":2.5,"candle_acc_trade_volume":20}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewUpbitFetcher(srv.URL, "", nil, RetryPolicy{})
	ctx := context.Background()

	markets, err := f.ListMarkets(ctx)
	if err != nil {
		t.Fatalf("ListMarkets: %v", err)
	}
	if len(markets) != 2 || markets[0].Symbol != "AAA" || markets[0].Volume != 1000 || markets[0].Price != 10.5 {
		t.Errorf("unexpected markets %+v", markets)
	}
	if markets[1].Exchange != model.ExchangeUpbit {
		t.Errorf("expected upbit exchange, got %s", markets[1].Exchange)
	}

	bars, err := f.FetchCandles(ctx, "AAA", model.TF1h, 500)
	if err != nil {
		t.Fatalf("FetchCandles: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(bars))
	}
	if bars[0].Close != 2.5 || bars[1].Close != 3.5 {
		t.Errorf("expected oldest-first order, got %+v", bars)
	}
	if want := time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC); !bars[0].Time.Equal(want) {
		t.Errorf("expected time %v, got %v", want, bars[0].Time)
	}
}

func TestUpbitFetcher_RetriesServerErrors(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, "busy", http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	f := NewUpbitFetcher(srv.URL, "", NewLimiter(1000, 10), RetryPolicy{MaxRetries: 2})
	bars, err := f.FetchCandles(context.Background(), "AAA", model.TF5m, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 0 || calls != 2 {
		t.Errorf("expected empty result after 2 calls, got %d bars, %d calls", len(bars), calls)
	}
}

func TestBithumbFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/public/ticker/ALL_KRW":
			w.Write([]byte(`{"status":"0000","data":{
				"ZZZ":{"closing_price":"5","acc_trade_value_24H":"123.5"},
				"AAA":{"closing_price":"1.25","acc_trade_value_24H":"900"},
				"date":"1700000000000"}}`))
		case r.URL.Path == "/public/candlestick/AAA_KRW/24h":
			w.Write([]byte(`{"status":"0000","data":[
				[1700000000000,"1","2","3","0.5","10"],
				[1700086400000,"2","3","4","1.5","20"],
				[1700172800000,3,4,5,2.5,30]]}`))
		case strings.HasPrefix(r.URL.Path, "/public/candlestick/BAD_KRW"):
			w.Write([]byte(`{"status":"5600","message":"unknown"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewBithumbFetcher(srv.URL, "", nil, RetryPolicy{})
	ctx := context.Background()

	markets, err := f.ListMarkets(ctx)
	if err != nil {
		t.Fatalf("ListMarkets: %v", err)
	}
	if len(markets) != 2 {
		t.Fatalf("expected 2 markets (date skipped), got %+v", markets)
	}
	if markets[0].Symbol != "AAA" || markets[0].Volume != 900 || markets[0].Price != 1.25 {
		t.Errorf("unexpected first market %+v", markets[0])
	}

	bars, err := f.FetchCandles(ctx, "AAA", model.TF1d, 2)
	if err != nil {
		t.Fatalf("FetchCandles: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("expected last 2 rows, got %d", len(bars))
	}
	b := bars[1]
	if b.Open != 3 || b.Close != 4 || b.High != 5 || b.Low != 2.5 || b.Volume != 30 {
		t.Errorf("unexpected column mapping %+v", b)
	}
	if b.Time.UnixMilli() != 1700172800000 {
		t.Errorf("unexpected time %v", b.Time)
	}

	if _, err := f.FetchCandles(ctx, "BAD", model.TF5m, 10); err == nil {
		t.Error("expected error for non-0000 status")
	}
}

func TestToFloat(t *testing.T) {
	tests := []struct {
		in   interface{}
		want float64
	}{
		{"1.5", 1.5},
		{2.0, 2},
		{"abc", 0},
		{nil, 0},
	}
	for _, tt := range tests {
		if got := toFloat(tt.in); got != tt.want {
			t.Errorf("toFloat(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
