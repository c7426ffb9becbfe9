package calculator

import (
	"math"

	"BoxScreener/internal/model"

	"github.com/markcheno/go-talib"
)

const (
	conversionPeriod = 9
	basePeriod       = 26
	spanBPeriod      = 52
	cloudNearFactor  = 0.98
)

// CalculateCloud derives the leading spans from the 9, 26 and 52 bar
// high/low midpoints of the newest bars. ok is false with fewer than 52 bars.
func CalculateCloud(bars []model.OHLCV) (cloud model.Cloud, ok bool) {
	if len(bars) < spanBPeriod {
		return model.Cloud{}, false
	}
	highs := extractHighs(bars)
	lows := extractLows(bars)
	last := len(bars) - 1

	conversion := talib.MidPrice(highs, lows, conversionPeriod)[last]
	base := talib.MidPrice(highs, lows, basePeriod)[last]
	spanA := (conversion + base) / 2
	spanB := talib.MidPrice(highs, lows, spanBPeriod)[last]

	return model.Cloud{
		SpanA:       spanA,
		SpanB:       spanB,
		CloudTop:    math.Max(spanA, spanB),
		CloudBottom: math.Min(spanA, spanB),
	}, true
}

// ClassifyCloud returns "above" when price is over the cloud top and "near"
// when price is at or above 98% of the cloud bottom. Anything lower has no status.
func ClassifyCloud(cloud model.Cloud, price float64) (model.CloudStatus, bool) {
	switch {
	case price > cloud.CloudTop:
		return model.CloudAbove, true
	case price >= cloud.CloudBottom*cloudNearFactor:
		return model.CloudNear, true
	default:
		return "", false
	}
}
