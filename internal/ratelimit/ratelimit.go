// Package ratelimit provides request pacing for source adapters.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// Pacer enforces a minimum gap between consecutive requests to one source.
// Each adapter owns its own Pacer; sources never share a budget, so a slow
// source cannot starve another.
type Pacer struct {
	lim *rate.Limiter
}

// NewPacer creates a pacer allowing one request per minDelay. A zero or
// negative delay disables pacing.
func NewPacer(minDelay time.Duration) *Pacer {
	if minDelay <= 0 {
		return &Pacer{lim: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Pacer{lim: rate.NewLimiter(rate.Every(minDelay), 1)}
}

// Wait blocks until the next request is allowed or ctx is cancelled.
func (p *Pacer) Wait(ctx context.Context) error {
	if err := p.lim.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}
	return nil
}
