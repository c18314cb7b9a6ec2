package config

// Default filter data. These mirror the documented search policy (NYC-focused
// senior product roles) and apply only when the corresponding config section
// is left empty, so the filter logic itself stays a generic evaluator.

var defaultAlwaysAccept = []string{
	"remote", "work from home", "wfh", "anywhere", "distributed",
}

var defaultPreferredAreas = []string{
	"midtown", "grand central", "times square", "bryant park",
	"rockefeller", "radio city", "madison avenue", "fifth avenue",
	"park avenue", "lexington avenue", "vanderbilt", "murray hill",
	"turtle bay", "herald square", "penn station", "garment district",
}

// Streets within a 15-minute walk of Grand Central. A street token alone is
// too ambiguous; it counts as preferred only alongside a primary or generic
// token.
var defaultPreferredStreets = []string{
	"34th", "35th", "36th", "37th", "38th", "39th", "40th",
	"41st", "42nd", "43rd", "44th", "45th", "46th", "47th",
	"48th", "49th", "50th", "51st", "52nd", "53rd", "54th",
	"55th", "56th", "57th", "58th", "59th",
}

var defaultPrimaryAreas = []string{
	"manhattan", "downtown", "uptown", "lower manhattan",
	"upper east side", "upper west side",
	"east village", "west village", "soho", "tribeca", "financial district",
	"chelsea", "gramercy", "kips bay", "flatiron",
	"union square", "madison square",
	"columbus circle", "lincoln center",
}

var defaultSecondaryAreas = []string{
	"bronx", "fordham", "riverdale", "mott haven",
}

var defaultGenericTokens = []string{
	"new york", "nyc", "ny, ny",
}

var defaultExcludeTokens = []string{
	"brooklyn", "queens", "staten island",
}

var defaultRejectKeywords = []string{
	// Engineering (most common false positives).
	"software engineer", "engineer", "engineering manager",
	"staff engineer", "principal engineer", "senior engineer",
	"backend", "frontend", "full stack", "fullstack",
	"devops", "sre", "site reliability", "infrastructure engineer",
	"data engineer", "ml engineer", "machine learning engineer",
	"solutions engineer", "sales engineer", "security engineer",
	// Design.
	"product designer", "ux designer", "ui designer",
	"design", "creative", "visual designer",
	// Marketing.
	"product marketing", "marketing manager", "growth marketing",
	"marketing", "brand manager", "communications",
	// Data/analytics.
	"data scientist", "data analyst", "analytics manager",
	"business intelligence", "data manager",
	// Program management.
	"technical program manager", "tpm",
	// Other non-target functions.
	"recruiter", "talent", "operations", "customer success",
	"account manager", "project manager", "program manager",
	"scrum master", "agile coach", "delivery manager",
}

var defaultQualifierKeywords = []string{
	"product manager",
	"product management",
	"senior product",
	"principal product",
	"staff product",
	"director of product",
	"director, product",
	"vp product",
	"vp of product",
	"vice president product",
	"head of product",
	"chief product officer",
	"cpo",
	"group product manager",
	"group pm",
	"lead product manager",
	"lead pm",
	"product lead",
	"product owner",
}

// applyFilterDefaults fills any empty filter list with the built-in policy.
func applyFilterDefaults(f FilterConfig) FilterConfig {
	loc := &f.Location
	if len(loc.AlwaysAccept) == 0 {
		loc.AlwaysAccept = defaultAlwaysAccept
	}
	if len(loc.PreferredAreas) == 0 {
		loc.PreferredAreas = defaultPreferredAreas
	}
	if len(loc.PreferredStreets) == 0 {
		loc.PreferredStreets = defaultPreferredStreets
	}
	if len(loc.PrimaryAreas) == 0 {
		loc.PrimaryAreas = defaultPrimaryAreas
	}
	if len(loc.SecondaryAreas) == 0 {
		loc.SecondaryAreas = defaultSecondaryAreas
	}
	if len(loc.GenericTokens) == 0 {
		loc.GenericTokens = defaultGenericTokens
	}
	if len(loc.ExcludeTokens) == 0 {
		loc.ExcludeTokens = defaultExcludeTokens
	}

	role := &f.Role
	if len(role.RejectKeywords) == 0 {
		role.RejectKeywords = defaultRejectKeywords
	}
	if role.FunctionKeyword == "" {
		role.FunctionKeyword = "product"
	}
	if len(role.QualifierKeywords) == 0 {
		role.QualifierKeywords = defaultQualifierKeywords
	}
	if role.MinSeniority == "" {
		role.MinSeniority = "Senior"
	}

	return f
}
