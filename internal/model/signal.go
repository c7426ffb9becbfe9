package model

// SymbolResult is the screening outcome for one (symbol, exchange) pair.
// Pointer fields are present only when the underlying signal holds.
type SymbolResult struct {
	Symbol        string                `json:"symbol"`
	Exchange      Exchange              `json:"exchange"`
	Volume        float64               `json:"volume"`
	CurrentPrice  float64               `json:"currentPrice"`
	Timeframes    map[Timeframe]BoxInfo `json:"timeframes"`
	BoxCount      int                   `json:"boxCount"`
	AllTimeframes bool                  `json:"allTimeframes"`
	Above1hMA50   bool                  `json:"above1hMA50"`
	Above5mMA50   bool                  `json:"above5mMA50"`

	CloudStatus5m  *CloudStatus    `json:"cloudStatus5m,omitempty"`
	CloudStatus30m *CloudStatus    `json:"cloudStatus30m,omitempty"`
	CloudStatus1h  *CloudStatus    `json:"cloudStatus,omitempty"`
	CloudStatus4h  *CloudStatus    `json:"cloudStatus4h,omitempty"`
	VolumeSpike    *VolumeSpike    `json:"volumeSpike,omitempty"`
	MA110          *float64        `json:"ma110,omitempty"`
	MA50           *float64        `json:"ma50,omitempty"`
	IsTriggered    *bool           `json:"isTriggered,omitempty"`
	PullbackSignal *PullbackSignal `json:"pullbackSignal,omitempty"`
	Watchlist      *Watchlist      `json:"watchlist,omitempty"`
	SwingRecovery  *SwingRecovery  `json:"swingRecovery,omitempty"`
}

// Report is the output of one screening run.
type Report struct {
	Results       []SymbolResult `json:"results"`
	TotalAnalyzed int            `json:"totalAnalyzed"`
	FoundCount    int            `json:"foundCount"`
	LastUpdated   int64          `json:"lastUpdated"` // ms epoch
	Error         string         `json:"error,omitempty"`
}
