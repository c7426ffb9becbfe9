package calculator

import (
	"errors"

	"BoxScreener/internal/model"

	"github.com/markcheno/go-talib"
)

// CalculateSMA computes the simple moving average of the given prices over the specified period.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// MovingAverage returns the mean of the most recent period closes.
// ok is false when the series is shorter than period.
func MovingAverage(bars []model.OHLCV, period int) (ma float64, ok bool) {
	ma, err := CalculateSMA(extractCloses(bars), period)
	if err != nil {
		return 0, false
	}
	return ma, true
}

// CalculateSlope averages the bar-to-bar percentage change of the period-SMA
// over the last lookback bars. Pairs whose earlier average is zero are skipped;
// ok is false when history is short or no pair is usable.
func CalculateSlope(bars []model.OHLCV, period, lookback int) (slope float64, ok bool) {
	if period <= 0 || lookback <= 0 || len(bars) < period+lookback {
		return 0, false
	}
	sma := talib.Sma(extractCloses(bars), period)
	n := len(sma)

	sum := 0.0
	valid := 0
	for i := 0; i < lookback; i++ {
		cur := sma[n-1-i]
		prev := sma[n-2-i]
		if prev == 0 {
			continue
		}
		sum += (cur - prev) / prev * 100
		valid++
	}
	if valid == 0 {
		return 0, false
	}
	return sum / float64(valid), true
}

func extractCloses(bars []model.OHLCV) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}

func extractHighs(bars []model.OHLCV) []float64 {
	highs := make([]float64, len(bars))
	for i, b := range bars {
		highs[i] = b.High
	}
	return highs
}

func extractLows(bars []model.OHLCV) []float64 {
	lows := make([]float64, len(bars))
	for i, b := range bars {
		lows[i] = b.Low
	}
	return lows
}
