// Package dedupe collapses a merged batch to unique postings and gates out
// postings already seen in previous runs.
package dedupe

import (
	"strings"

	"jobscout/internal/model"
)

// Dedupe removes duplicates in a single pass, preserving first-seen order.
// Identity is the non-empty ExternalID (adapters namespace these per source,
// so collisions mean the same posting); jobs without one fall back to the
// normalized (title, company) pair. Later duplicates are dropped silently.
//
// Normalization is lowercase + trim only. No fuzzy matching: near-identical
// postings with different spellings survive as distinct records, a known
// false-negative trade-off.
func Dedupe(jobs []model.Job) []model.Job {
	seenID := make(map[string]struct{}, len(jobs))
	seenKey := make(map[[2]string]struct{}, len(jobs))

	out := make([]model.Job, 0, len(jobs))
	for _, j := range jobs {
		if j.ExternalID != "" {
			if _, dup := seenID[j.ExternalID]; dup {
				continue
			}
			seenID[j.ExternalID] = struct{}{}
			out = append(out, j)
			continue
		}

		key := [2]string{normalize(j.Title), normalize(j.Company)}
		if _, dup := seenKey[key]; dup {
			continue
		}
		seenKey[key] = struct{}{}
		out = append(out, j)
	}
	return out
}

// Gate drops jobs whose ExternalID is already persisted. Jobs without an
// ExternalID cannot be gated and always pass as "new" — a documented
// limitation of ID-less sources.
func Gate(jobs []model.Job, known map[string]struct{}) []model.Job {
	out := make([]model.Job, 0, len(jobs))
	for _, j := range jobs {
		if j.ExternalID != "" {
			if _, seen := known[j.ExternalID]; seen {
				continue
			}
		}
		out = append(out, j)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
