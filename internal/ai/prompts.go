package ai

import (
	_ "embed"
	"text/template"
)

//go:embed prompts/job_match.md
var jobMatchPromptRaw string

// JobMatchTemplate is the parsed prompt template for job-fit scoring.
// Parsed once at package init; reused on every Score call.
var JobMatchTemplate = template.Must(template.New("job_match").Parse(jobMatchPromptRaw))
