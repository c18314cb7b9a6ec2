package ai

import (
	"context"

	"jobscout/internal/model"
)

// NopScorer is a no-op scorer used when scoring.enabled is false.
// Every job gets a zero score with no LLM calls.
type NopScorer struct{}

// NewNopScorer returns a NopScorer.
func NewNopScorer() *NopScorer {
	return &NopScorer{}
}

// Score returns zero for every job.
func (n *NopScorer) Score(_ context.Context, _ model.Job) (float64, string, error) {
	return 0, "", nil
}
