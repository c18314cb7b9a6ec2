// Package filter implements the eligibility predicates: location, role, and
// seniority. All predicates are pure functions over configured token lists —
// no I/O, no per-keyword code paths.
package filter

import (
	"jobscout/internal/config"
	"jobscout/internal/model"
)

// Eligibility combines the location and role predicates. A job must pass
// both to survive.
type Eligibility struct {
	Location *LocationFilter
	Role     *RoleFilter
}

// New builds the combined filter from config data.
func New(cfg config.FilterConfig) *Eligibility {
	return &Eligibility{
		Location: NewLocationFilter(cfg.Location),
		Role:     NewRoleFilter(cfg.Role),
	}
}

// Eligible reports whether the job passes location, role, and seniority.
// Jobs with an empty title are malformed and always rejected.
func (e *Eligibility) Eligible(job model.Job) bool {
	if job.Title == "" {
		return false
	}
	if !e.Location.Matches(job.Location) {
		return false
	}
	return e.Role.Matches(job.Title) && e.Role.MeetsSeniority(job.Title)
}

// Apply filters a batch, preserving order. A malformed record drops alone;
// it never fails the batch.
func (e *Eligibility) Apply(jobs []model.Job) []model.Job {
	out := make([]model.Job, 0, len(jobs))
	for _, j := range jobs {
		if e.Eligible(j) {
			out = append(out, j)
		}
	}
	return out
}
