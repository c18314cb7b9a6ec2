// Package pipeline owns the full aggregation run: fetch from all sources,
// deduplicate, gate against the store, filter, score, rank, persist, notify.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"jobscout/internal/dedupe"
	"jobscout/internal/fetch"
	"jobscout/internal/filter"
	"jobscout/internal/model"
	"jobscout/internal/rank"
)

// Options carries the run policy that isn't a collaborator.
type Options struct {
	Query           model.Query
	ScoringEnabled  bool
	ScoreTimeout    time.Duration
	MinMatchScore   float64
	UrgentThreshold float64
	UrgentLimit     int
}

// Summary reports what one run did at each stage.
type Summary struct {
	RunID     string
	StartedAt time.Time
	Duration  time.Duration

	Fetched  int
	Unique   int
	New      int
	Eligible int
	Matched  int
	Urgent   int

	Fetch fetch.Report
}

// Pipeline wires the run stages together. All collaborators are interfaces
// so tests can substitute fakes.
type Pipeline struct {
	orch     *fetch.Orchestrator
	filters  *filter.Eligibility
	scorer   model.Scorer
	store    model.JobStore
	notifier model.Notifier
	opts     Options
	logger   *slog.Logger
}

// New creates a pipeline wired with all its dependencies.
func New(
	orch *fetch.Orchestrator,
	filters *filter.Eligibility,
	scorer model.Scorer,
	store model.JobStore,
	notifier model.Notifier,
	opts Options,
	logger *slog.Logger,
) *Pipeline {
	return &Pipeline{
		orch:     orch,
		filters:  filters,
		scorer:   scorer,
		store:    store,
		notifier: notifier,
		opts:     opts,
		logger:   logger,
	}
}

// Run executes one aggregation cycle. A failure reading the store is fatal:
// without the known-ID set the ingestion gate cannot make promises about
// duplicates. Per-source fetch failures and per-job scoring failures degrade
// the run instead of aborting it.
func (p *Pipeline) Run(ctx context.Context) (Summary, error) {
	summary := Summary{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
	logger := p.logger.With("run_id", summary.RunID)
	logger.Info("run started", "keywords", p.opts.Query.Keywords)

	known, err := p.store.ExistingExternalIDs()
	if err != nil {
		return summary, fmt.Errorf("reading known jobs: %w", err)
	}

	merged, report := p.orch.Run(ctx, p.opts.Query)
	summary.Fetch = report
	summary.Fetched = len(merged)
	if failed := report.Failed(); len(failed) > 0 {
		logger.Warn("some sources failed", "sources", failed)
	}

	unique := dedupe.Dedupe(merged)
	summary.Unique = len(unique)

	fresh := dedupe.Gate(unique, known)
	summary.New = len(fresh)

	eligible := p.filters.Apply(fresh)
	summary.Eligible = len(eligible)

	now := time.Now().UTC()
	for i := range eligible {
		eligible[i].LocationScore = p.filters.Location.Score(eligible[i].Location)
		eligible[i].DiscoveredAt = now
	}

	matched := p.scoreJobs(ctx, logger, eligible)
	summary.Matched = len(matched)

	rank.Rank(matched)
	urgent := rank.UrgentSubset(matched, p.opts.UrgentThreshold, p.opts.UrgentLimit)
	summary.Urgent = len(urgent)

	if err := p.store.UpsertJobs(matched); err != nil {
		return summary, fmt.Errorf("persisting jobs: %w", err)
	}

	if len(matched) > 0 {
		if err := p.notifier.Notify(matched, urgent); err != nil {
			// The run's results are already persisted; a notification
			// failure shouldn't look like a failed run.
			logger.Error("notification failed", "error", err)
		}
	}

	summary.Duration = time.Since(summary.StartedAt)
	logger.Info("run complete",
		"fetched", summary.Fetched,
		"unique", summary.Unique,
		"new", summary.New,
		"eligible", summary.Eligible,
		"matched", summary.Matched,
		"urgent", summary.Urgent,
		"duration", summary.Duration,
	)

	return summary, nil
}

// scoreJobs scores each job against the profile. A scoring failure records a
// zero score with a diagnostic instead of dropping the job. When scoring is
// enabled, jobs under the minimum match score are cut; when disabled, every
// job passes through unscored.
func (p *Pipeline) scoreJobs(ctx context.Context, logger *slog.Logger, jobs []model.Job) []model.Job {
	if !p.opts.ScoringEnabled {
		return jobs
	}

	out := make([]model.Job, 0, len(jobs))
	for _, j := range jobs {
		scoreCtx, cancel := context.WithTimeout(ctx, p.opts.ScoreTimeout)
		score, reasoning, err := p.scorer.Score(scoreCtx, j)
		cancel()

		if err != nil {
			// Keep the job: a degraded scorer shouldn't silently discard
			// otherwise-eligible postings.
			logger.Warn("scoring failed", "title", j.Title, "company", j.Company, "error", err)
			j.MatchScore = 0
			j.MatchReasoning = fmt.Sprintf("scoring unavailable: %v", err)
			out = append(out, j)
			continue
		}

		j.MatchScore = score
		j.MatchReasoning = reasoning
		if j.MatchScore < p.opts.MinMatchScore {
			continue
		}
		out = append(out, j)
	}
	return out
}
