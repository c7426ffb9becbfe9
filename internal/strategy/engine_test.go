package strategy

import (
	"testing"
	"time"

	"BoxScreener/internal/model"
)

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func flat(n int, price float64) []model.OHLCV {
	bars := make([]model.OHLCV, n)
	for i := range bars {
		bars[i] = model.OHLCV{
			Time:   now.Add(-time.Duration(n-i) * time.Hour),
			Open:   price,
			High:   price,
			Low:    price,
			Close:  price,
			Volume: 1000,
		}
	}
	return bars
}

// choppy swings 100% every bar, so no box can form.
func choppy(n int) []model.OHLCV {
	bars := flat(n, 150)
	for i := range bars {
		bars[i].High = 200
		bars[i].Low = 100
	}
	return bars
}

func fullSet(bars func() []model.OHLCV) model.SeriesSet {
	set := model.SeriesSet{}
	for _, tf := range model.Timeframes {
		set[tf] = bars()
	}
	return set
}

func TestCompose_NoBoxesExcluded(t *testing.T) {
	set := fullSet(func() []model.OHLCV { return choppy(200) })
	if res, ok := Compose(model.Market{Symbol: "AAA", Exchange: model.ExchangeUpbit}, set, now); ok || res != nil {
		t.Fatalf("expected exclusion, got %+v", res)
	}
}

func TestCompose_EmptySeriesExcluded(t *testing.T) {
	if _, ok := Compose(model.Market{Symbol: "AAA"}, model.SeriesSet{}, now); ok {
		t.Fatal("expected exclusion for a market without candles")
	}
}

func TestCompose_AllTimeframesBoxed(t *testing.T) {
	set := fullSet(func() []model.OHLCV { return flat(200, 100) })
	market := model.Market{Symbol: "BBB", Exchange: model.ExchangeBithumb, Volume: 5e9, Price: 100}

	res, ok := Compose(market, set, now)
	if !ok {
		t.Fatal("expected result")
	}
	if res.BoxCount != 5 || !res.AllTimeframes {
		t.Errorf("expected 5 boxes, got %d (all=%v)", res.BoxCount, res.AllTimeframes)
	}
	if res.Symbol != "BBB" || res.Exchange != model.ExchangeBithumb || res.Volume != 5e9 {
		t.Errorf("identifying fields not copied: %+v", res)
	}
	if res.Above1hMA50 || res.Above5mMA50 {
		t.Error("price equal to MA50 must not count as above")
	}
	if res.CloudStatus1h == nil || *res.CloudStatus1h != model.CloudNear {
		t.Errorf("expected near cloud on 1h, got %v", res.CloudStatus1h)
	}
	if res.IsTriggered != nil || res.PullbackSignal != nil || res.MA110 != nil {
		t.Error("expected no trigger fields on a flat daily series")
	}
	if res.SwingRecovery != nil {
		t.Error("expected no swing recovery on a flat series")
	}
	if res.Watchlist == nil || res.Watchlist.IsUptrend {
		t.Errorf("expected flat watchlist entry, got %+v", res.Watchlist)
	}
}

func TestCompose_PartialTimeframes(t *testing.T) {
	set := model.SeriesSet{
		model.TF5m:  choppy(200),
		model.TF30m: nil,
		model.TF1h:  flat(200, 100),
		model.TF4h:  choppy(200),
	}
	res, ok := Compose(model.Market{Symbol: "CCC"}, set, now)
	if !ok {
		t.Fatal("expected result")
	}
	if res.BoxCount != 1 || res.AllTimeframes {
		t.Errorf("expected a single box, got %d", res.BoxCount)
	}
	if !res.Timeframes[model.TF1h].HasBox || res.Timeframes[model.TF1d].HasBox {
		t.Errorf("unexpected timeframe map: %+v", res.Timeframes)
	}
	if len(res.Timeframes) != 5 {
		t.Errorf("expected all five labels in the map, got %d", len(res.Timeframes))
	}
	// price falls back to the 5m close
	if res.CurrentPrice != 150 {
		t.Errorf("expected fallback price 150, got %v", res.CurrentPrice)
	}
}

func TestCompose_AboveCloudAndMA(t *testing.T) {
	set := fullSet(func() []model.OHLCV { return flat(200, 100) })
	res, ok := Compose(model.Market{Symbol: "DDD", Price: 101}, set, now)
	if !ok {
		t.Fatal("expected result")
	}
	if !res.Above1hMA50 || !res.Above5mMA50 {
		t.Error("expected price above both MA50s")
	}
	for name, st := range map[string]*model.CloudStatus{
		"5m": res.CloudStatus5m, "30m": res.CloudStatus30m, "1h": res.CloudStatus1h, "4h": res.CloudStatus4h,
	} {
		if st == nil || *st != model.CloudAbove {
			t.Errorf("%s: expected above, got %v", name, st)
		}
	}
}

func TestCompose_TriggerAndPullback(t *testing.T) {
	set := fullSet(func() []model.OHLCV { return flat(200, 100) })
	daily := set[model.TF1d]
	i := len(daily) - 3
	daily[i].Open = 100
	daily[i].Close = 108
	daily[i].High = 108
	daily[i].Volume = 12000

	res, ok := Compose(model.Market{Symbol: "EEE", Price: 100}, set, now)
	if !ok {
		t.Fatal("expected result")
	}
	if res.IsTriggered == nil || !*res.IsTriggered {
		t.Fatal("expected trigger")
	}
	if res.MA110 == nil || res.MA50 == nil {
		t.Fatal("expected daily averages alongside the trigger")
	}
	if res.PullbackSignal == nil || *res.PullbackSignal != model.PullbackTrend110 {
		t.Errorf("expected TREND_110, got %v", res.PullbackSignal)
	}
}
