package model

import (
	"context"
	"time"
)

// Status is the review lifecycle state of a stored job.
// The pipeline only ever produces StatusNew; later states are set by the user.
type Status string

const (
	StatusNew      Status = "new"
	StatusReviewed Status = "reviewed"
	StatusApplied  Status = "applied"
	StatusRejected Status = "rejected"
	StatusExpired  Status = "expired"
)

// Job is the canonical representation of a posting from any source.
// Adapters must fill every field; empty string is the absence sentinel
// (never nil). A Job is immutable once it passes the ingestion gate —
// scoring and ranking set MatchScore/LocationScore before persistence,
// but fetched fields are never rewritten.
type Job struct {
	ExternalID string `json:"external_id"` // source-qualified unique ID, e.g. "greenhouse_482913"; may be empty
	Source     string `json:"source"`      // adapter that produced it

	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url"`
	JobType     string `json:"job_type,omitempty"` // Full-time, Contract, etc.; empty when unknown

	SalaryMin int `json:"salary_min,omitempty"` // annual, 0 when the source gives no range
	SalaryMax int `json:"salary_max,omitempty"`

	PostedDate   time.Time `json:"posted_date"`   // source timestamp, ingestion time when absent/unparsable
	DiscoveredAt time.Time `json:"discovered_at"` // our clock, set by the pipeline

	MatchScore     float64 `json:"match_score"` // 0–100, set by the scoring collaborator; 0 = not yet scored
	MatchReasoning string  `json:"match_reasoning,omitempty"`
	LocationScore  int     `json:"location_score"` // 0–100 tier, recomputed from Location every run

	Status Status `json:"status"`
}

// Query carries the search parameters handed to every source adapter.
type Query struct {
	Keywords  []string
	Locations []string
}

// SourceAdapter fetches and normalizes listings from one external source.
// Fetch must not panic past its boundary; network, parse, and auth failures
// come back as the error value with whatever partial results were gathered.
type SourceAdapter interface {
	Name() string
	Fetch(ctx context.Context, q Query) ([]Job, error)
}

// Scorer is the external scoring collaborator. A failed call is reported as
// (0, diagnostic, err); callers treat that as "unscored", never as fatal.
type Scorer interface {
	Score(ctx context.Context, job Job) (score float64, reasoning string, err error)
}

// JobStore is the persistence contract the pipeline needs: the set of
// already-known external IDs, and an idempotent upsert keyed on ExternalID.
type JobStore interface {
	ExistingExternalIDs() (map[string]struct{}, error)
	UpsertJobs(jobs []Job) error
}

// Notifier delivers the final ranked batch plus the urgent subset.
type Notifier interface {
	Notify(jobs []Job, urgent []Job) error
}
