// Package scheduler runs the pipeline at fixed wall-clock times each day.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"
)

// Runner is the unit of work the scheduler drives once per scheduled time.
type Runner interface {
	Run(ctx context.Context) error
}

// Scheduler owns the daemon loop: it sleeps until the next configured
// wall-clock time ("HH:MM", local time) and runs the pipeline.
type Scheduler struct {
	runner Runner
	times  []string
	now    func() time.Time // swapped in tests
	logger *slog.Logger
}

// New creates a scheduler over the given daily run times. Times must already
// be validated as "HH:MM" by config loading; at least one is required, or the
// daemon loop would have nothing to wait for.
func New(runner Runner, times []string, logger *slog.Logger) (*Scheduler, error) {
	if len(times) == 0 {
		return nil, errors.New("scheduler: no run times configured")
	}
	return &Scheduler{
		runner: runner,
		times:  times,
		now:    time.Now,
		logger: logger,
	}, nil
}

// Run starts the daemon loop. It returns nil when ctx is cancelled (graceful
// shutdown). A failed run is logged and the loop keeps going; the next
// scheduled time still fires.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("starting scheduler", "times", s.times)

	for {
		next := s.nextRun(s.now())
		s.logger.Info("next run scheduled", "at", next.Format(time.RFC3339))

		select {
		case <-ctx.Done():
			s.logger.Info("shutting down scheduler")
			return nil
		case <-time.After(next.Sub(s.now())):
		}

		if err := s.runner.Run(ctx); err != nil {
			if ctx.Err() != nil {
				s.logger.Info("shutting down scheduler")
				return nil
			}
			s.logger.Error("scheduled run failed", "error", err)
		}
	}
}

// nextRun returns the earliest configured time strictly after now, rolling to
// tomorrow's first slot when today's are all past.
func (s *Scheduler) nextRun(now time.Time) time.Time {
	var candidates []time.Time
	for _, t := range s.times {
		parsed, err := time.Parse("15:04", t)
		if err != nil {
			continue // validated at config load; never expected here
		}
		candidate := time.Date(now.Year(), now.Month(), now.Day(),
			parsed.Hour(), parsed.Minute(), 0, 0, now.Location())
		if !candidate.After(now) {
			candidate = candidate.AddDate(0, 0, 1)
		}
		candidates = append(candidates, candidate)
	}

	if len(candidates) == 0 {
		// Every configured time failed to parse. Retry in a day rather
		// than spinning.
		return now.AddDate(0, 0, 1)
	}
	sort.Slice(candidates, func(i, k int) bool { return candidates[i].Before(candidates[k]) })
	return candidates[0]
}
