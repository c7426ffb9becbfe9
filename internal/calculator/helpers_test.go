package calculator

import (
	"time"

	"BoxScreener/internal/model"
)

var baseTime = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func barsFromCloses(closes []float64) []model.OHLCV {
	bars := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = model.OHLCV{
			Time:   baseTime.Add(time.Duration(i) * time.Hour),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 1000,
		}
	}
	return bars
}

func flatBars(n int, price float64) []model.OHLCV {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = price
	}
	return barsFromCloses(closes)
}
