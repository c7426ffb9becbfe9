package recorder

import "BoxScreener/internal/model"

// NoopRecorder is a no-op implementation used when no database is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordReport(_ string, _ *model.Report) error { return nil }
func (n *NoopRecorder) Close() error                                 { return nil }
