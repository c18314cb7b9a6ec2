package filter

import (
	"strings"

	"jobscout/internal/config"
)

// Location score tiers. Fixed discrete values: they exist to express sort
// priority, not a probability of anything.
const (
	ScorePreferred = 100 // most-preferred sub-area
	ScorePrimary   = 80  // broader acceptable area
	ScoreGeneric   = 75  // generic city token, assumed acceptable
	ScoreSecondary = 60  // second allowed region
	ScoreRemote    = 50  // remote, accepted but lowest tier
)

// LocationFilter evaluates a job's location string against configured token
// lists. All matching is case-insensitive substring containment; there is no
// geocoding. The generic-token branch is a heuristic carried over from the
// original policy: a bare city+state string is assumed to be in the primary
// area unless an exclusion token says otherwise.
type LocationFilter struct {
	rules config.LocationRules
}

// NewLocationFilter returns a filter over the given location rules.
func NewLocationFilter(rules config.LocationRules) *LocationFilter {
	return &LocationFilter{rules: rules}
}

// Matches reports whether the location is acceptable. Empty locations are
// rejected. Exclusion tokens override every geographic inclusion token;
// always-accept (remote) tokens are checked first and are not overridable.
func (f *LocationFilter) Matches(location string) bool {
	if location == "" {
		return false
	}
	loc := strings.ToLower(location)

	if containsAny(loc, f.rules.AlwaysAccept) {
		return true
	}
	if containsAny(loc, f.rules.ExcludeTokens) {
		return false
	}
	if containsAny(loc, f.rules.PreferredAreas) ||
		containsAny(loc, f.rules.PrimaryAreas) ||
		containsAny(loc, f.rules.SecondaryAreas) {
		return true
	}
	return containsAny(loc, f.rules.GenericTokens)
}

// Score maps an accepted location onto its fixed tier. Locations that fail
// Matches score 0; they should never reach the ranker.
func (f *LocationFilter) Score(location string) int {
	if !f.Matches(location) {
		return 0
	}
	loc := strings.ToLower(location)

	if f.isPreferred(loc) {
		return ScorePreferred
	}
	if containsAny(loc, f.rules.PrimaryAreas) {
		return ScorePrimary
	}
	if containsAny(loc, f.rules.SecondaryAreas) {
		return ScoreSecondary
	}
	if containsAny(loc, f.rules.AlwaysAccept) {
		return ScoreRemote
	}
	// Accepted via a generic token only.
	return ScoreGeneric
}

// isPreferred checks the most-preferred sub-area: either a named neighborhood
// token, or a street token paired with a primary/generic token (a street
// number alone is too ambiguous to trust).
func (f *LocationFilter) isPreferred(loc string) bool {
	if containsAny(loc, f.rules.PreferredAreas) {
		return true
	}
	if containsAny(loc, f.rules.PreferredStreets) {
		return containsAny(loc, f.rules.PrimaryAreas) || containsAny(loc, f.rules.GenericTokens)
	}
	return false
}

// containsAny reports whether s contains any of the given lowercase tokens.
func containsAny(s string, tokens []string) bool {
	for _, t := range tokens {
		if t == "" {
			continue
		}
		if strings.Contains(s, strings.ToLower(t)) {
			return true
		}
	}
	return false
}
