package calculator

import (
	"errors"
	"math"

	"BoxScreener/internal/model"
)

const (
	boxLookback    = 20
	boxMaxRangePct = 30.0
	breakoutFactor = 1.03
	belowFactor    = 0.97
)

// CalculateRange scans the most recent lookback bars and returns the high and low.
func CalculateRange(bars []model.OHLCV, lookback int) (high, low float64, err error) {
	if lookback <= 0 {
		return 0, 0, errors.New("lookback must be positive")
	}
	if len(bars) < lookback {
		return 0, 0, errors.New("not enough bars for range calculation")
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for i := len(bars) - lookback; i < len(bars); i++ {
		if bars[i].High > high {
			high = bars[i].High
		}
		if bars[i].Low < low {
			low = bars[i].Low
		}
	}
	return high, low, nil
}

// CalculateRangePosition returns where current sits within [low, high] as a percentage.
// A flat range (high == low) yields 50. The result is not clamped.
func CalculateRangePosition(current, high, low float64) float64 {
	if high == low {
		return 50
	}
	return (current - low) / (high - low) * 100
}

// DetectBox looks for a consolidation band in the last 20 bars and classifies
// the latest close against it. A band wider than 30% of its bottom is not a box.
func DetectBox(bars []model.OHLCV) model.BoxInfo {
	top, bottom, err := CalculateRange(bars, boxLookback)
	if err != nil || bottom == 0 {
		return model.BoxInfo{}
	}
	if (top-bottom)/bottom*100 > boxMaxRangePct {
		return model.BoxInfo{}
	}

	box := model.BoxInfo{HasBox: true, Top: top, Bottom: bottom}
	last := model.LastClose(bars)
	switch {
	case last > top*breakoutFactor:
		box.Position = model.PositionBreakout
	case last < bottom*belowFactor:
		box.Position = model.PositionBelow
	default:
		pct := CalculateRangePosition(last, top, bottom)
		box.PositionPercent = &pct
		switch {
		case pct >= 66:
			box.Position = model.PositionTop
		case pct >= 33:
			box.Position = model.PositionMiddle
		default:
			box.Position = model.PositionBottom
		}
	}
	return box
}
