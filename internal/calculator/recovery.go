package calculator

import "BoxScreener/internal/model"

const (
	recoveryPeriod      = 50
	recoveryOldLookback = 10
	recoveryNewLookback = 5
	recoveryOldMax      = -0.5
	recoveryRecentMin   = -0.3
)

// DetectSwingRecovery flags an hourly MA50 that was falling (10-bar slope
// below -0.5%) and has flattened out (5-bar slope above -0.3%) while the
// price trades above it.
func DetectSwingRecovery(hourly []model.OHLCV, price float64, ma50 *float64) (model.SwingRecovery, bool) {
	if ma50 == nil || price <= *ma50 {
		return model.SwingRecovery{}, false
	}
	slopeOld, ok := CalculateSlope(hourly, recoveryPeriod, recoveryOldLookback)
	if !ok {
		return model.SwingRecovery{}, false
	}
	slopeRecent, ok := CalculateSlope(hourly, recoveryPeriod, recoveryNewLookback)
	if !ok {
		return model.SwingRecovery{}, false
	}
	if slopeOld >= recoveryOldMax || slopeRecent <= recoveryRecentMin {
		return model.SwingRecovery{}, false
	}
	return model.SwingRecovery{
		SlopeOld:    slopeOld,
		SlopeRecent: slopeRecent,
		MA50Current: *ma50,
	}, true
}
