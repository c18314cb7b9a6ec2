package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"text/template"

	"jobscout/internal/config"
	"jobscout/internal/model"
)

// Matcher scores job postings against a candidate profile using an LLM.
type Matcher struct {
	provider LLMProvider
	profile  config.ProfileConfig
	tmpl     *template.Template
	logger   *slog.Logger
}

// NewMatcher creates a scorer bound to the given candidate profile.
func NewMatcher(provider LLMProvider, profile config.ProfileConfig, tmpl *template.Template, logger *slog.Logger) *Matcher {
	return &Matcher{
		provider: provider,
		profile:  profile,
		tmpl:     tmpl,
		logger:   logger,
	}
}

// Score rates how well job fits the profile on a 0-100 scale with a short
// reasoning string.
func (m *Matcher) Score(ctx context.Context, job model.Job) (float64, string, error) {
	var promptBuf bytes.Buffer
	err := m.tmpl.Execute(&promptBuf, struct {
		Profile config.ProfileConfig
		Job     model.Job
	}{
		Profile: m.profile,
		Job:     job,
	})
	if err != nil {
		return 0, "", fmt.Errorf("render prompt: %w", err)
	}

	raw, err := m.provider.Complete(ctx, promptBuf.String())
	if err != nil {
		return 0, "", fmt.Errorf("llm complete: %w", err)
	}

	return parseMatch(raw)
}

// rawMatch is the JSON shape returned by the LLM (matches jobMatchSchema).
type rawMatch struct {
	Score     float64 `json:"score"`
	Reasoning string  `json:"reasoning"`
}

// parseMatch deserializes the LLM response. OpenAI structured outputs
// guarantees valid JSON conforming to jobMatchSchema, so no code-fence
// stripping or defensive trimming is needed.
func parseMatch(raw string) (float64, string, error) {
	var rm rawMatch
	if err := json.Unmarshal([]byte(raw), &rm); err != nil {
		return 0, "", fmt.Errorf("unmarshal match JSON: %w", err)
	}

	// Clamp in case a non-OpenAI-compatible backend ignores the schema bounds.
	if rm.Score < 0 {
		rm.Score = 0
	}
	if rm.Score > 100 {
		rm.Score = 100
	}

	return rm.Score, rm.Reasoning, nil
}
