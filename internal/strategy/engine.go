package strategy

import (
	"time"

	"BoxScreener/internal/calculator"
	"BoxScreener/internal/model"
)

// Compose evaluates every indicator for one market and assembles its result.
// ok is false when no timeframe shows a box; such markets are left out of the report.
func Compose(market model.Market, series model.SeriesSet, now time.Time) (result *model.SymbolResult, ok bool) {
	price := resolvePrice(market, series)

	result = &model.SymbolResult{
		Symbol:       market.Symbol,
		Exchange:     market.Exchange,
		Volume:       market.Volume,
		CurrentPrice: price,
		Timeframes:   make(map[model.Timeframe]model.BoxInfo, len(model.Timeframes)),
	}

	// Step a: box per timeframe
	for _, tf := range model.Timeframes {
		box := calculator.DetectBox(series[tf])
		result.Timeframes[tf] = box
		if box.HasBox {
			result.BoxCount++
		}
	}
	if result.BoxCount == 0 {
		return nil, false
	}
	result.AllTimeframes = result.BoxCount == len(model.Timeframes)

	// Step b: moving-average position
	hourlyMA50 := maOf(series[model.TF1h], 50)
	result.Above1hMA50 = above(price, hourlyMA50)
	result.Above5mMA50 = above(price, maOf(series[model.TF5m], 50))

	// Step c: cloud status on the intraday timeframes
	result.CloudStatus5m = cloudStatus(series[model.TF5m], price)
	result.CloudStatus30m = cloudStatus(series[model.TF30m], price)
	result.CloudStatus1h = cloudStatus(series[model.TF1h], price)
	result.CloudStatus4h = cloudStatus(series[model.TF4h], price)

	// Step d: daily trigger candle and pullback
	applyTrigger(result, series[model.TF1d], price)

	// Step e: hourly trend signals
	result.Watchlist = watchlist(series[model.TF1h], hourlyMA50)
	if rec, ok := calculator.DetectSwingRecovery(series[model.TF1h], price, hourlyMA50); ok {
		result.SwingRecovery = &rec
	}
	if spike, ok := calculator.DetectVolumeSpike(series[model.TF1h], now); ok {
		result.VolumeSpike = &spike
	}

	return result, true
}
