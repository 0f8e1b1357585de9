package pipeline

import (
	"context"

	"github.com/ppiankov/driftchain/internal/model"
)

// Sink persists finished runs. The pipeline never reads it back.
type Sink interface {
	SaveRun(ctx context.Context, record model.RunRecord) (string, error)
}

// NopSink discards runs
type NopSink struct{}

// SaveRun returns the record id without storing anything
func (NopSink) SaveRun(_ context.Context, record model.RunRecord) (string, error) {
	return record.ID, nil
}
