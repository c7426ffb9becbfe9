package model

// BoxPosition describes where the latest close sits relative to a box range.
type BoxPosition string

const (
	PositionBreakout BoxPosition = "breakout"
	PositionBelow    BoxPosition = "below"
	PositionTop      BoxPosition = "top"
	PositionMiddle   BoxPosition = "middle"
	PositionBottom   BoxPosition = "bottom"
)

// BoxInfo is the box-range descriptor of one timeframe.
// Only HasBox is serialized when no box was detected.
type BoxInfo struct {
	HasBox          bool        `json:"hasBox"`
	Top             float64     `json:"top,omitempty"`
	Bottom          float64     `json:"bottom,omitempty"`
	Position        BoxPosition `json:"position,omitempty"`
	PositionPercent *float64    `json:"positionPercent,omitempty"`
}

// Cloud is the cloud descriptor derived from 9/26/52-bar midpoints.
type Cloud struct {
	SpanA       float64
	SpanB       float64
	CloudTop    float64
	CloudBottom float64
}

// CloudStatus is the price position signal against a cloud.
type CloudStatus string

const (
	CloudAbove CloudStatus = "above"
	CloudNear  CloudStatus = "near"
)

// PullbackSignal names the moving average a post-trigger pullback is resting on.
type PullbackSignal string

const (
	PullbackTrend110   PullbackSignal = "TREND_110"
	PullbackSupport50  PullbackSignal = "SUPPORT_50"
	PullbackSupport180 PullbackSignal = "SUPPORT_180"
)

// SwingRecovery reports a decline-then-stabilization of the hourly MA50.
type SwingRecovery struct {
	SlopeOld    float64 `json:"slopeOld"`
	SlopeRecent float64 `json:"slopeRecent"`
	MA50Current float64 `json:"ma50Current"`
}

// Watchlist carries the hourly MA50 trend direction.
type Watchlist struct {
	IsUptrend   bool    `json:"isUptrend"`
	Slope       float64 `json:"slope"`
	MA50Current float64 `json:"ma50Current"`
}

// VolumeSpike is the most recent hourly bar with outsized volume.
type VolumeSpike struct {
	Time      int64   `json:"time"` // ms epoch
	TimeAgo   string  `json:"timeAgo"`
	Volume    float64 `json:"volume"`
	AvgVolume float64 `json:"avgVolume"`
	Ratio     float64 `json:"ratio"`
}
