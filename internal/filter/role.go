package filter

import (
	"strings"

	"jobscout/internal/config"
)

// Tier is a seniority level with a total order: higher value outranks lower.
type Tier int

const (
	TierUnknown Tier = iota
	TierMidLevel
	TierSenior
	TierPrincipal
	TierDirector
	TierVP
	TierCSuite
)

var tierNames = map[Tier]string{
	TierUnknown:   "Unknown",
	TierMidLevel:  "Mid-Level",
	TierSenior:    "Senior",
	TierPrincipal: "Principal",
	TierDirector:  "Director",
	TierVP:        "VP",
	TierCSuite:    "C-Suite",
}

func (t Tier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return "Unknown"
}

// ParseTier maps a config string to a Tier. Unrecognized values parse as
// TierSenior, the documented default minimum.
func ParseTier(s string) Tier {
	for t, name := range tierNames {
		if strings.EqualFold(name, s) {
			return t
		}
	}
	return TierSenior
}

// tierKeywords is the precedence ladder for classifying a title. Checked from
// the top down; the highest-ranking matched keyword wins.
var tierKeywords = []struct {
	tier     Tier
	keywords []string
}{
	{TierCSuite, []string{"chief product officer", "cpo"}},
	{TierVP, []string{"vp product", "vp of product", "vice president"}},
	{TierDirector, []string{"director", "head of product"}},
	{TierPrincipal, []string{"principal", "staff product"}},
	{TierSenior, []string{"senior", "sr.", "sr ", "lead product", "group product manager", "group pm"}},
}

// RoleFilter applies the two-phase role policy plus the seniority check.
type RoleFilter struct {
	rules   config.RoleRules
	minTier Tier
}

// NewRoleFilter returns a filter over the given role rules.
func NewRoleFilter(rules config.RoleRules) *RoleFilter {
	return &RoleFilter{
		rules:   rules,
		minTier: ParseTier(rules.MinSeniority),
	}
}

// Matches reports whether the title is a target-function role. Phase 1: any
// reject-list keyword disqualifies immediately, whatever else the title says.
// Phase 2: the title must contain the function token and at least one
// qualifier phrase; a bare function token is treated as a likely false
// positive (adjacent roles that merely mention the word).
func (f *RoleFilter) Matches(title string) bool {
	if title == "" {
		return false
	}
	t := strings.ToLower(title)

	if containsAny(t, f.rules.RejectKeywords) {
		return false
	}

	if !strings.Contains(t, strings.ToLower(f.rules.FunctionKeyword)) {
		return false
	}
	return containsAny(t, f.rules.QualifierKeywords)
}

// Seniority classifies the title on the tier ladder. Titles that fail Matches
// are always TierUnknown; matching titles with no ladder keyword are
// TierMidLevel.
func (f *RoleFilter) Seniority(title string) Tier {
	if !f.Matches(title) {
		return TierUnknown
	}
	t := strings.ToLower(title)

	for _, entry := range tierKeywords {
		if containsAny(t, entry.keywords) {
			return entry.tier
		}
	}
	return TierMidLevel
}

// MeetsSeniority reports whether the title's tier is at or above the
// configured minimum. TierUnknown fails any minimum above TierUnknown.
func (f *RoleFilter) MeetsSeniority(title string) bool {
	return f.Seniority(title) >= f.minTier
}
