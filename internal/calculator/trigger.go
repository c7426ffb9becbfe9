package calculator

import (
	"math"
	"time"

	"BoxScreener/internal/model"

	"github.com/dustin/go-humanize"
)

const (
	triggerMinBars     = 20
	triggerRecentBars  = 7
	triggerBaseBars    = 13
	triggerMinBodyPct  = 7.0
	triggerMinVolRatio = 10.0

	spikeWindow   = 24
	spikeMinRatio = 5.0
)

// DetectTrigger scans the last 7 daily bars for a bullish candle whose body
// is at least 7% of its open and whose volume is at least 10x the average
// of the 13 bars before that window. The oldest qualifying bar wins.
func DetectTrigger(daily []model.OHLCV) (model.OHLCV, bool) {
	n := len(daily)
	if n < triggerMinBars {
		return model.OHLCV{}, false
	}

	// offsets -20 .. -8
	baseline := 0.0
	for _, b := range daily[n-triggerMinBars : n-triggerRecentBars] {
		baseline += b.Volume
	}
	baseline /= triggerBaseBars
	if baseline == 0 {
		return model.OHLCV{}, false
	}

	for _, b := range daily[n-triggerRecentBars:] {
		if b.Open == 0 || b.Close <= b.Open {
			continue
		}
		body := math.Abs(b.Close-b.Open) / b.Open * 100
		ratio := b.Volume / baseline
		if body >= triggerMinBodyPct && ratio >= triggerMinVolRatio {
			return b, true
		}
	}
	return model.OHLCV{}, false
}

// DetectVolumeSpike finds the newest of the last 24 hourly bars whose volume
// is at least 5x the mean of the 24 bars before them. Needs 48 bars.
func DetectVolumeSpike(hourly []model.OHLCV, now time.Time) (model.VolumeSpike, bool) {
	n := len(hourly)
	if n < spikeWindow*2 {
		return model.VolumeSpike{}, false
	}

	avg := 0.0
	for _, b := range hourly[n-spikeWindow*2 : n-spikeWindow] {
		avg += b.Volume
	}
	avg /= spikeWindow
	if avg == 0 {
		return model.VolumeSpike{}, false
	}

	for i := n - 1; i >= n-spikeWindow; i-- {
		b := hourly[i]
		ratio := b.Volume / avg
		if ratio < spikeMinRatio {
			continue
		}
		return model.VolumeSpike{
			Time:      b.Time.UnixMilli(),
			TimeAgo:   humanize.RelTime(b.Time, now, "ago", "from now"),
			Volume:    b.Volume,
			AvgVolume: avg,
			Ratio:     ratio,
		}, true
	}
	return model.VolumeSpike{}, false
}
