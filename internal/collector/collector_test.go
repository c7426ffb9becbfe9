package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"BoxScreener/internal/model"
)

func TestUniverse_MajorsDuplicatesAndCap(t *testing.T) {
	upbit := &MockFetcher{
		Exchange: model.ExchangeUpbit,
		Markets: []model.Market{
			{Symbol: "BTC", Volume: 9e12},
			{Symbol: "AAA", Volume: 100},
			{Symbol: "BBB", Volume: 300},
			{Symbol: "CCC", Volume: 200},
		},
	}
	bithumb := &MockFetcher{
		Exchange: model.ExchangeBithumb,
		Markets: []model.Market{
			{Symbol: "BBB", Volume: 5000},
			{Symbol: "DDD", Volume: 50},
			{Symbol: "ETH", Volume: 8e12},
		},
	}
	c := NewCollector(upbit, bithumb)
	c.MaxSymbols = 2

	got := c.Universe(context.Background())
	want := []struct {
		sym string
		ex  model.Exchange
	}{
		{"BBB", model.ExchangeUpbit},
		{"CCC", model.ExchangeUpbit},
		{"DDD", model.ExchangeBithumb},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d markets, got %d: %+v", len(want), len(got), got)
	}
	for i, w := range want {
		if got[i].Symbol != w.sym || got[i].Exchange != w.ex {
			t.Errorf("market %d: expected %s/%s, got %s/%s", i, w.ex, w.sym, got[i].Exchange, got[i].Symbol)
		}
	}
}

func TestUniverse_KeepsMajorsWhenNotExcluded(t *testing.T) {
	f := &MockFetcher{Exchange: model.ExchangeUpbit, Markets: []model.Market{{Symbol: "BTC", Volume: 1}}}
	c := NewCollector(f)
	c.ExcludeMajors = false
	if got := c.Universe(context.Background()); len(got) != 1 {
		t.Errorf("expected BTC to stay, got %+v", got)
	}
}

func TestUniverse_ListFailureIsEmptyForThatExchange(t *testing.T) {
	broken := &MockFetcher{Exchange: model.ExchangeUpbit, ListErr: errors.New("boom")}
	ok := &MockFetcher{Exchange: model.ExchangeBithumb, Markets: []model.Market{{Symbol: "XYZ", Volume: 1}}}

	got := NewCollector(broken, ok).Universe(context.Background())
	if len(got) != 1 || got[0].Symbol != "XYZ" {
		t.Errorf("expected only the bithumb market, got %+v", got)
	}
}

func TestSeries_FetchErrorLeavesTimeframesEmpty(t *testing.T) {
	f := &MockFetcher{Exchange: model.ExchangeUpbit, CandleErr: errors.New("timeout")}
	set := NewCollector(f).Series(context.Background(), model.Market{Symbol: "AAA", Exchange: model.ExchangeUpbit})
	for _, tf := range model.Timeframes {
		if len(set[tf]) != 0 {
			t.Errorf("%s: expected empty series, got %d bars", tf, len(set[tf]))
		}
	}
}

func TestSeries_TrimsToCandleCount(t *testing.T) {
	bars := GenerateMockBars(100, 300, time.Hour, time.Now())
	f := &MockFetcher{
		Exchange: model.ExchangeBithumb,
		Series:   map[string]model.SeriesSet{"AAA": {model.TF1h: bars}},
	}
	c := NewCollector(f)
	set := c.Series(context.Background(), model.Market{Symbol: "AAA", Exchange: model.ExchangeBithumb})
	if len(set[model.TF1h]) != 200 {
		t.Fatalf("expected 200 bars, got %d", len(set[model.TF1h]))
	}
	if !set[model.TF1h][199].Time.Equal(bars[299].Time) {
		t.Error("expected the newest bars to be kept")
	}
	if len(set[model.TF5m]) != 0 {
		t.Error("expected missing timeframe to be empty")
	}
}

func TestSeries_UnknownExchange(t *testing.T) {
	c := NewCollector(&MockFetcher{Exchange: model.ExchangeUpbit})
	set := c.Series(context.Background(), model.Market{Symbol: "AAA", Exchange: model.ExchangeBithumb})
	if len(set) != 0 {
		t.Errorf("expected empty set, got %v", set)
	}
}

func TestRetryPolicy_Do(t *testing.T) {
	calls := 0
	p := RetryPolicy{MaxRetries: 2}
	err := p.Do(context.Background(), "flaky", func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil || calls != 3 {
		t.Errorf("expected success on third call, got err=%v calls=%d", err, calls)
	}

	calls = 0
	sentinel := errors.New("down")
	err = p.Do(context.Background(), "dead", func() error { calls++; return sentinel })
	if !errors.Is(err, sentinel) {
		t.Errorf("expected wrapped sentinel, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 attempts, got %d", calls)
	}
}

func TestRetryPolicy_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := RetryPolicy{MaxRetries: 5, Backoff: time.Hour}
	err := p.Do(ctx, "cancelled", func() error { return errors.New("fail") })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestLimiter_NilIsUnlimited(t *testing.T) {
	var l *Limiter
	if err := l.Wait(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
