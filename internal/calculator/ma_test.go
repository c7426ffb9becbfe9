package calculator

import "testing"

func TestCalculateSMA_InvalidInput(t *testing.T) {
	if _, err := CalculateSMA([]float64{1, 2, 3}, 0); err == nil {
		t.Error("expected error for zero period")
	}
	if _, err := CalculateSMA([]float64{1, 2, 3}, 4); err == nil {
		t.Error("expected error for short input")
	}
}

func TestMovingAverage_ConstantSeries(t *testing.T) {
	bars := flatBars(60, 123.5)
	for _, period := range []int{1, 5, 20, 50, 60} {
		ma, ok := MovingAverage(bars, period)
		if !ok {
			t.Fatalf("period %d: expected value", period)
		}
		if ma != 123.5 {
			t.Errorf("period %d: expected 123.5, got %v", period, ma)
		}
	}
	if _, ok := MovingAverage(bars, 61); ok {
		t.Error("expected absent MA when period exceeds history")
	}
}

func TestMovingAverage_UsesNewestCloses(t *testing.T) {
	bars := barsFromCloses([]float64{1000, 10, 20, 30})
	ma, ok := MovingAverage(bars, 3)
	if !ok || ma != 20 {
		t.Errorf("expected 20, got %v (ok=%v)", ma, ok)
	}
}

func TestCalculateSlope_Direction(t *testing.T) {
	up := make([]float64, 80)
	down := make([]float64, 80)
	for i := range up {
		up[i] = float64(100 + i)
		down[i] = float64(300 - i)
	}

	if s, ok := CalculateSlope(barsFromCloses(up), 50, 10); !ok || s <= 0 {
		t.Errorf("rising series: expected positive slope, got %v (ok=%v)", s, ok)
	}
	if s, ok := CalculateSlope(barsFromCloses(down), 50, 5); !ok || s >= 0 {
		t.Errorf("falling series: expected negative slope, got %v (ok=%v)", s, ok)
	}
	if s, ok := CalculateSlope(flatBars(80, 10), 50, 5); !ok || s != 0 {
		t.Errorf("flat series: expected zero slope, got %v (ok=%v)", s, ok)
	}
}

func TestCalculateSlope_Insufficient(t *testing.T) {
	if _, ok := CalculateSlope(flatBars(54, 10), 50, 5); ok {
		t.Error("expected absent slope with period+lookback-1 bars")
	}
	if _, ok := CalculateSlope(flatBars(55, 10), 50, 5); !ok {
		t.Error("expected slope with exactly period+lookback bars")
	}
	if _, ok := CalculateSlope(flatBars(60, 0), 50, 5); ok {
		t.Error("expected absent slope when every average is zero")
	}
}
