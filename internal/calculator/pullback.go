package calculator

import (
	"math"

	"BoxScreener/internal/model"
)

const pullbackBandPct = 2.0

// ClassifyPullback reports which daily average the price is resting on,
// checking MA110, then MA50, then MA180. Nil averages are skipped.
func ClassifyPullback(price float64, ma110, ma50, ma180 *float64) (model.PullbackSignal, bool) {
	switch {
	case withinBand(price, ma110):
		return model.PullbackTrend110, true
	case withinBand(price, ma50):
		return model.PullbackSupport50, true
	case withinBand(price, ma180):
		return model.PullbackSupport180, true
	default:
		return "", false
	}
}

func withinBand(price float64, ma *float64) bool {
	if ma == nil || *ma == 0 {
		return false
	}
	return math.Abs(price-*ma)/(*ma)*100 <= pullbackBandPct
}
