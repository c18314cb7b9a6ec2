package filter

import (
	"testing"

	"jobscout/internal/config"
)

func testRoleRules() config.RoleRules {
	return config.RoleRules{
		RejectKeywords:    []string{"marketing", "intern"},
		FunctionKeyword:   "product",
		QualifierKeywords: []string{"manager", "management", "lead", "director", "owner", "officer"},
		MinSeniority:      "Senior",
	}
}

func TestRoleMatches(t *testing.T) {
	f := NewRoleFilter(testRoleRules())

	tests := []struct {
		title string
		want  bool
	}{
		{"Senior Product Manager", true},
		{"Director of Product Management", true},
		{"Product Owner", true},
		// Reject list wins even when function and qualifier are present.
		{"Senior Product Marketing Manager", false},
		{"Product Management Intern", false},
		// Function token without a qualifier is a likely false positive.
		{"Product Analyst", false},
		// Qualifier without the function token is a different discipline.
		{"Engineering Manager", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := f.Matches(tt.title); got != tt.want {
			t.Errorf("Matches(%q) = %v, want %v", tt.title, got, tt.want)
		}
	}
}

func TestSeniority(t *testing.T) {
	f := NewRoleFilter(testRoleRules())

	tests := []struct {
		title string
		want  Tier
	}{
		{"Chief Product Officer", TierCSuite},
		{"VP of Product Management", TierVP},
		{"Director, Product Management", TierDirector},
		{"Principal Product Manager", TierPrincipal},
		{"Senior Product Manager", TierSenior},
		{"Sr. Product Manager", TierSenior},
		{"Group Product Manager", TierSenior},
		{"Product Manager", TierMidLevel},
		// Fails Matches, so it never reaches the ladder.
		{"Senior Marketing Product Manager", TierUnknown},
	}
	for _, tt := range tests {
		if got := f.Seniority(tt.title); got != tt.want {
			t.Errorf("Seniority(%q) = %v, want %v", tt.title, got, tt.want)
		}
	}
}

func TestMeetsSeniority(t *testing.T) {
	f := NewRoleFilter(testRoleRules())

	if f.MeetsSeniority("Product Manager") {
		t.Error("mid-level must not meet a Senior minimum")
	}
	if !f.MeetsSeniority("Senior Product Manager") {
		t.Error("Senior must meet a Senior minimum")
	}
	if !f.MeetsSeniority("Director of Product Management") {
		t.Error("Director must meet a Senior minimum")
	}
	if !f.MeetsSeniority("VP of Product Management") {
		t.Error("VP must meet a Senior minimum")
	}
	if !f.MeetsSeniority("Chief Product Officer") {
		t.Error("C-Suite must meet a Senior minimum")
	}
}

func TestParseTier(t *testing.T) {
	if got := ParseTier("director"); got != TierDirector {
		t.Errorf("ParseTier(director) = %v, want %v", got, TierDirector)
	}
	if got := ParseTier("nonsense"); got != TierSenior {
		t.Errorf("ParseTier(nonsense) = %v, want the Senior default", got)
	}
}

func TestTierOrdering(t *testing.T) {
	ladder := []Tier{TierUnknown, TierMidLevel, TierSenior, TierPrincipal, TierDirector, TierVP, TierCSuite}
	for i := 1; i < len(ladder); i++ {
		if ladder[i] <= ladder[i-1] {
			t.Errorf("%v must outrank %v", ladder[i], ladder[i-1])
		}
	}
}
