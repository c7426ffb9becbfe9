package calculator

import (
	"strings"
	"testing"
	"time"

	"BoxScreener/internal/model"
)

func dailyWithCandle(open, close, volume float64, offset int) []model.OHLCV {
	bars := make([]model.OHLCV, 20)
	for i := range bars {
		bars[i] = model.OHLCV{Open: 100, High: 101, Low: 99, Close: 100, Volume: 1000}
	}
	i := len(bars) + offset
	bars[i] = model.OHLCV{Open: open, High: open * 1.1, Low: open * 0.9, Close: close, Volume: volume}
	return bars
}

func TestDetectTrigger(t *testing.T) {
	tests := []struct {
		name          string
		open, close   float64
		volume        float64
		offset        int
		wantTriggered bool
	}{
		{"bullish 8% body at 12x volume", 100, 108, 12000, -3, true},
		{"bearish 8% body at 12x volume", 100, 92, 12000, -3, false},
		{"small body", 100, 105, 12000, -3, false},
		{"low volume", 100, 108, 9000, -3, false},
		{"newest bar", 100, 110, 20000, -1, true},
		{"outside recent window", 100, 108, 12000, -8, false},
	}
	for _, tt := range tests {
		_, got := DetectTrigger(dailyWithCandle(tt.open, tt.close, tt.volume, tt.offset))
		if got != tt.wantTriggered {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.wantTriggered)
		}
	}
}

func TestDetectTrigger_Guards(t *testing.T) {
	if _, ok := DetectTrigger(flatBars(19, 100)); ok {
		t.Error("expected no trigger with 19 bars")
	}

	bars := dailyWithCandle(100, 108, 12000, -3)
	for i := 0; i < 13; i++ {
		bars[i].Volume = 0
	}
	if _, ok := DetectTrigger(bars); ok {
		t.Error("expected no trigger with zero baseline volume")
	}

	bars = dailyWithCandle(0, 108, 12000, -3)
	if _, ok := DetectTrigger(bars); ok {
		t.Error("expected no trigger for a zero open")
	}
}

func TestDetectVolumeSpike(t *testing.T) {
	bars := flatBars(48, 100)
	for i := range bars {
		bars[i].Volume = 100
	}
	if _, ok := DetectVolumeSpike(bars, baseTime); ok {
		t.Error("expected no spike on flat volume")
	}

	bars[45].Volume = 600
	now := bars[45].Time.Add(3 * time.Hour)
	spike, ok := DetectVolumeSpike(bars, now)
	if !ok {
		t.Fatal("expected spike")
	}
	if spike.Ratio != 6 || spike.AvgVolume != 100 || spike.Volume != 600 {
		t.Errorf("unexpected spike values: %+v", spike)
	}
	if spike.Time != bars[45].Time.UnixMilli() {
		t.Errorf("expected spike time %d, got %d", bars[45].Time.UnixMilli(), spike.Time)
	}
	if !strings.HasSuffix(spike.TimeAgo, "ago") {
		t.Errorf("expected relative time, got %q", spike.TimeAgo)
	}

	if _, ok := DetectVolumeSpike(bars[1:], now); ok {
		t.Error("expected no spike with 47 bars")
	}
}
