package recorder

import (
	"encoding/json"
	"fmt"
	"time"

	"BoxScreener/internal/model"
)

// Recorder archives screening reports for later analysis.
// Nothing in the screening path reads the archive back.
type Recorder interface {
	RecordReport(runID string, report *model.Report) error
	Close() error
}

// runRow is one row of screen_runs.
type runRow struct {
	RunID         string `db:"run_id"`
	GeneratedAt   int64  `db:"generated_at"` // ms epoch
	TotalAnalyzed int    `db:"total_analyzed"`
	FoundCount    int    `db:"found_count"`
	Error         string `db:"error"`
}

// resultRow is one row of screen_results; Payload is the full result JSON.
type resultRow struct {
	RunID         string  `db:"run_id"`
	Symbol        string  `db:"symbol"`
	Exchange      string  `db:"exchange"`
	Volume        float64 `db:"volume"`
	CurrentPrice  float64 `db:"current_price"`
	BoxCount      int     `db:"box_count"`
	AllTimeframes bool    `db:"all_timeframes"`
	Payload       string  `db:"payload"`
}

func buildRows(runID string, r *model.Report) (runRow, []resultRow, error) {
	generated := r.LastUpdated
	if generated == 0 {
		generated = time.Now().UnixMilli()
	}
	run := runRow{
		RunID:         runID,
		GeneratedAt:   generated,
		TotalAnalyzed: r.TotalAnalyzed,
		FoundCount:    r.FoundCount,
		Error:         r.Error,
	}
	rows := make([]resultRow, 0, len(r.Results))
	for _, res := range r.Results {
		payload, err := json.Marshal(res)
		if err != nil {
			return run, nil, fmt.Errorf("marshal %s/%s: %w", res.Exchange, res.Symbol, err)
		}
		rows = append(rows, resultRow{
			RunID:         runID,
			Symbol:        res.Symbol,
			Exchange:      string(res.Exchange),
			Volume:        res.Volume,
			CurrentPrice:  res.CurrentPrice,
			BoxCount:      res.BoxCount,
			AllTimeframes: res.AllTimeframes,
			Payload:       string(payload),
		})
	}
	return run, rows, nil
}
