// Package retry wraps a source adapter with bounded retry on transient
// failures. Retry is per-source policy: the orchestrator itself never
// retries, so sources that opt out simply aren't wrapped.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"jobscout/internal/model"
)

// Adapter decorates a SourceAdapter with exponential backoff and jitter.
type Adapter struct {
	inner      model.SourceAdapter
	maxRetries int
	baseDelay  time.Duration
	logger     *slog.Logger
}

// New wraps inner with retry logic. maxRetries is the number of additional
// attempts after the first failure; baseDelay is the delay before the first
// retry, doubled on each subsequent one.
func New(inner model.SourceAdapter, maxRetries int, baseDelay time.Duration, logger *slog.Logger) *Adapter {
	return &Adapter{
		inner:      inner,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		logger:     logger,
	}
}

// Name returns the wrapped adapter's name.
func (a *Adapter) Name() string { return a.inner.Name() }

// Fetch attempts the fetch, retrying on transient errors.
func (a *Adapter) Fetch(ctx context.Context, q model.Query) ([]model.Job, error) {
	jobs, err := a.inner.Fetch(ctx, q)
	if err == nil {
		return jobs, nil
	}

	if !isRetryable(err) {
		return jobs, err
	}

	lastErr := err
	for attempt := 1; attempt <= a.maxRetries; attempt++ {
		delay := a.backoffDelay(attempt, lastErr)

		a.logger.Warn("retrying after transient error",
			"source", a.inner.Name(),
			"attempt", attempt,
			"max_retries", a.maxRetries,
			"delay", delay,
			"error", lastErr,
		)

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}

		jobs, err = a.inner.Fetch(ctx, q)
		if err == nil {
			return jobs, nil
		}

		if !isRetryable(err) {
			return jobs, err
		}
		lastErr = err
	}

	return nil, lastErr
}

// backoffDelay computes the delay for a given attempt with ±30% jitter.
// If the error carries a Retry-After duration (HTTP 429), that takes
// precedence.
func (a *Adapter) backoffDelay(attempt int, err error) time.Duration {
	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) && httpErr.RetryAfter > 0 {
		return httpErr.RetryAfter
	}

	delay := a.baseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
	}

	jitter := float64(delay) * 0.3
	delay = time.Duration(float64(delay) + (rand.Float64()*2-1)*jitter)

	return delay
}

// isRetryable returns true if the error represents a transient failure worth
// retrying.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	// Context cancellation — never retry.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var httpErr *model.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.StatusCode == 429 {
			return true
		}
		if httpErr.StatusCode >= 500 {
			return true
		}
		return false
	}

	// Non-HTTP errors (network, DNS, etc.) — retryable.
	return true
}
