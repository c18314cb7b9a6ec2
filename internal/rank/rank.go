// Package rank orders the eligible batch for downstream consumption.
package rank

import (
	"sort"

	"jobscout/internal/model"
)

// Rank sorts jobs by location score (descending), then match score
// (descending). The sort is stable: jobs tied on both keys keep their input
// order, which upstream stages have already made deterministic.
func Rank(jobs []model.Job) {
	sort.SliceStable(jobs, func(i, k int) bool {
		if jobs[i].LocationScore != jobs[k].LocationScore {
			return jobs[i].LocationScore > jobs[k].LocationScore
		}
		return jobs[i].MatchScore > jobs[k].MatchScore
	})
}

// UrgentSubset returns up to limit jobs with MatchScore at or above threshold,
// highest match score first. A limit of zero or less disables the subset and
// returns nil; callers who want no cap pass len(jobs).
func UrgentSubset(jobs []model.Job, threshold float64, limit int) []model.Job {
	if limit <= 0 || len(jobs) == 0 {
		return nil
	}

	byScore := make([]model.Job, len(jobs))
	copy(byScore, jobs)
	sort.SliceStable(byScore, func(i, k int) bool {
		return byScore[i].MatchScore > byScore[k].MatchScore
	})

	out := make([]model.Job, 0, limit)
	for _, j := range byScore {
		if j.MatchScore < threshold {
			break
		}
		out = append(out, j)
		if len(out) == limit {
			break
		}
	}
	return out
}
