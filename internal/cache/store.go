package cache

import (
	"context"
	"sync"
	"time"

	"BoxScreener/internal/model"
)

// Store keeps the most recent screening report.
type Store interface {
	Save(ctx context.Context, r *model.Report) error
	// Latest returns nil without error when nothing has been saved yet.
	Latest(ctx context.Context) (*model.Report, error)
	Close() error
}

// Age is how long ago the report was generated.
func Age(r *model.Report, now time.Time) time.Duration {
	if r == nil || r.LastUpdated == 0 {
		return 0
	}
	return now.Sub(time.UnixMilli(r.LastUpdated))
}

// MemoryStore holds the latest report in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	report *model.Report
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Save(_ context.Context, r *model.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.report = r
	return nil
}

func (s *MemoryStore) Latest(_ context.Context) (*model.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report, nil
}

func (s *MemoryStore) Close() error { return nil }
