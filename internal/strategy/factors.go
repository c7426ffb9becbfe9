package strategy

import (
	"BoxScreener/internal/calculator"
	"BoxScreener/internal/model"
)

// resolvePrice prefers the lister's last price and falls back to the
// newest close of the shortest non-empty timeframe.
func resolvePrice(market model.Market, series model.SeriesSet) float64 {
	if market.Price > 0 {
		return market.Price
	}
	for _, tf := range model.Timeframes {
		if bars := series[tf]; len(bars) > 0 {
			return model.LastClose(bars)
		}
	}
	return 0
}

func maOf(bars []model.OHLCV, period int) *float64 {
	ma, ok := calculator.MovingAverage(bars, period)
	if !ok {
		return nil
	}
	return &ma
}

func above(price float64, ma *float64) bool {
	return ma != nil && price > *ma
}

func cloudStatus(bars []model.OHLCV, price float64) *model.CloudStatus {
	cloud, ok := calculator.CalculateCloud(bars)
	if !ok {
		return nil
	}
	status, ok := calculator.ClassifyCloud(cloud, price)
	if !ok {
		return nil
	}
	return &status
}

// applyTrigger sets isTriggered, the daily averages and the pullback signal.
// Nothing is set unless a trigger candle was found.
func applyTrigger(result *model.SymbolResult, daily []model.OHLCV, price float64) {
	if _, ok := calculator.DetectTrigger(daily); !ok {
		return
	}
	triggered := true
	result.IsTriggered = &triggered

	ma110 := maOf(daily, 110)
	ma50 := maOf(daily, 50)
	ma180 := maOf(daily, 180)
	result.MA110 = ma110
	result.MA50 = ma50
	if signal, ok := calculator.ClassifyPullback(price, ma110, ma50, ma180); ok {
		result.PullbackSignal = &signal
	}
}

func watchlist(hourly []model.OHLCV, ma50 *float64) *model.Watchlist {
	if ma50 == nil {
		return nil
	}
	slope, ok := calculator.CalculateSlope(hourly, 50, 5)
	if !ok {
		return nil
	}
	return &model.Watchlist{
		IsUptrend:   slope > 0,
		Slope:       slope,
		MA50Current: *ma50,
	}
}
