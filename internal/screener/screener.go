package screener

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"BoxScreener/internal/collector"
	"BoxScreener/internal/model"
	"BoxScreener/internal/strategy"
)

// Source is what the screener needs from the data layer.
type Source interface {
	Universe(ctx context.Context) []model.Market
	Series(ctx context.Context, m model.Market) model.SeriesSet
}

var _ Source = (*collector.Collector)(nil)

// Screener runs one pass over the market universe.
type Screener struct {
	Source  Source
	Workers int
	Now     func() time.Time
}

// New creates a Screener with the given source and worker count.
func New(src Source, workers int) *Screener {
	if workers < 1 {
		workers = 1
	}
	return &Screener{Source: src, Workers: workers, Now: time.Now}
}

// Run screens every market and returns the report sorted by volume, highest first.
// An error means the run was aborted; use ErrorReport to emit it.
func (s *Screener) Run(ctx context.Context) (*model.Report, error) {
	start := s.now()
	universe := s.Source.Universe(ctx)
	log.Printf("[INFO] Screening %d markets with %d workers", len(universe), s.Workers)

	// one slot per market, each written by exactly one worker
	slots := make([]*model.SymbolResult, len(universe))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.Workers)
	for i, m := range universe {
		i, m := i, m
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("screening %s/%s panicked: %v", m.Exchange, m.Symbol, r)
				}
			}()
			if err := gctx.Err(); err != nil {
				return err
			}
			series := s.Source.Series(gctx, m)
			if err := gctx.Err(); err != nil {
				return err
			}
			if res, ok := strategy.Compose(m, series, start); ok {
				slots[i] = res
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("screening aborted: %w", err)
	}

	report := fold(slots, len(universe), s.now())
	log.Printf("[INFO] Screening done: %d/%d markets with boxes in %s",
		report.FoundCount, report.TotalAnalyzed, time.Since(start).Round(time.Millisecond))
	return report, nil
}

func fold(slots []*model.SymbolResult, total int, at time.Time) *model.Report {
	report := &model.Report{
		Results:       make([]model.SymbolResult, 0, len(slots)),
		TotalAnalyzed: total,
		LastUpdated:   at.UnixMilli(),
	}
	for _, r := range slots {
		if r != nil {
			report.Results = append(report.Results, *r)
		}
	}
	sort.SliceStable(report.Results, func(i, j int) bool {
		return report.Results[i].Volume > report.Results[j].Volume
	})
	report.FoundCount = len(report.Results)
	return report
}

// ErrorReport is the report emitted when a run fails as a whole.
func ErrorReport(err error, at time.Time) *model.Report {
	return &model.Report{
		Results:     []model.SymbolResult{},
		LastUpdated: at.UnixMilli(),
		Error:       err.Error(),
	}
}

func (s *Screener) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
