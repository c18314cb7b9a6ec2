// Package fetch runs all registered sources concurrently and merges their
// results deterministically.
package fetch

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"jobscout/internal/model"
	"jobscout/internal/registry"
)

// SourceReport records the outcome of one source's fetch.
type SourceReport struct {
	Source  string
	Count   int
	Err     error
	Elapsed time.Duration
}

// Report is the outcome of a whole fetch phase.
type Report struct {
	Sources []SourceReport
}

// Failed returns the names of sources whose fetch errored.
func (r Report) Failed() []string {
	var failed []string
	for _, s := range r.Sources {
		if s.Err != nil {
			failed = append(failed, s.Source)
		}
	}
	return failed
}

// Orchestrator fans a query out to every registered source.
type Orchestrator struct {
	entries        []registry.Entry
	globalDeadline time.Duration
	logger         *slog.Logger
}

// New creates an orchestrator over the given registry entries.
func New(entries []registry.Entry, globalDeadline time.Duration, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		entries:        entries,
		globalDeadline: globalDeadline,
		logger:         logger,
	}
}

// Run fetches from all sources in parallel. One source failing or timing out
// never blocks the others: each source writes into its own result slot, and
// errors are carried in the report rather than aborting the group. Results
// are merged in registration order so the output is deterministic for a
// given set of per-source outcomes.
func (o *Orchestrator) Run(ctx context.Context, q model.Query) ([]model.Job, Report) {
	ctx, cancel := context.WithTimeout(ctx, o.globalDeadline)
	defer cancel()

	type slot struct {
		jobs    []model.Job
		err     error
		elapsed time.Duration
	}
	slots := make([]slot, len(o.entries))

	g, gctx := errgroup.WithContext(ctx)
	for i, entry := range o.entries {
		g.Go(func() error {
			srcCtx, srcCancel := context.WithTimeout(gctx, entry.Timeout)
			defer srcCancel()

			start := time.Now()
			jobs, err := entry.Adapter.Fetch(srcCtx, q)
			slots[i] = slot{jobs: jobs, err: err, elapsed: time.Since(start)}

			if err != nil {
				o.logger.Warn("source fetch failed",
					"source", entry.Name,
					"elapsed", slots[i].elapsed,
					"error", err,
				)
			} else {
				o.logger.Info("source fetch done",
					"source", entry.Name,
					"jobs", len(jobs),
					"elapsed", slots[i].elapsed,
				)
			}
			// Source failures are reported, not propagated; returning an
			// error here would cancel the sibling fetches.
			return nil
		})
	}
	_ = g.Wait()

	var merged []model.Job
	report := Report{Sources: make([]SourceReport, len(o.entries))}
	for i, entry := range o.entries {
		s := slots[i]
		report.Sources[i] = SourceReport{
			Source:  entry.Name,
			Count:   len(s.jobs),
			Err:     s.err,
			Elapsed: s.elapsed,
		}
		merged = append(merged, s.jobs...)
	}

	return merged, report
}
