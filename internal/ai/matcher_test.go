package ai

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"jobscout/internal/config"
	"jobscout/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeProvider returns a canned response and records the prompt it received.
type fakeProvider struct {
	response string
	err      error
	prompt   string
}

func (f *fakeProvider) Complete(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.response, f.err
}

func testProfile() config.ProfileConfig {
	return config.ProfileConfig{
		Name:            "Jordan",
		CurrentRole:     "Product Manager",
		YearsExperience: 7,
		Skills:          []string{"roadmapping", "SQL"},
		SalaryMin:       150000,
	}
}

func TestMatcherScore_Success(t *testing.T) {
	provider := &fakeProvider{response: `{"score": 87.5, "reasoning": "Strong seniority and domain fit."}`}
	m := NewMatcher(provider, testProfile(), JobMatchTemplate, discardLogger())

	job := model.Job{
		Title:       "Senior Product Manager",
		Company:     "Acme",
		Location:    "New York, NY",
		Description: "Own the payments roadmap.",
	}
	score, reasoning, err := m.Score(context.Background(), job)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score != 87.5 {
		t.Errorf("expected score 87.5, got %v", score)
	}
	if reasoning != "Strong seniority and domain fit." {
		t.Errorf("unexpected reasoning: %q", reasoning)
	}

	// The rendered prompt must carry both the profile and the posting.
	for _, want := range []string{"Jordan", "roadmapping", "Senior Product Manager", "payments roadmap"} {
		if !strings.Contains(provider.prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestMatcherScore_ClampsOutOfRange(t *testing.T) {
	provider := &fakeProvider{response: `{"score": 150, "reasoning": "over-eager backend"}`}
	m := NewMatcher(provider, testProfile(), JobMatchTemplate, discardLogger())

	score, _, err := m.Score(context.Background(), model.Job{Title: "PM"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score != 100 {
		t.Errorf("expected clamped score 100, got %v", score)
	}
}

func TestMatcherScore_ProviderError(t *testing.T) {
	provider := &fakeProvider{err: errors.New("rate limited")}
	m := NewMatcher(provider, testProfile(), JobMatchTemplate, discardLogger())

	_, _, err := m.Score(context.Background(), model.Job{Title: "PM"})
	if err == nil {
		t.Fatal("expected error from provider, got nil")
	}
}

func TestMatcherScore_MalformedResponse(t *testing.T) {
	provider := &fakeProvider{response: `not json`}
	m := NewMatcher(provider, testProfile(), JobMatchTemplate, discardLogger())

	_, _, err := m.Score(context.Background(), model.Job{Title: "PM"})
	if err == nil {
		t.Fatal("expected error for malformed response, got nil")
	}
}

func TestNopScorer(t *testing.T) {
	score, reasoning, err := NewNopScorer().Score(context.Background(), model.Job{Title: "PM"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score != 0 || reasoning != "" {
		t.Errorf("expected zero score and empty reasoning, got %v %q", score, reasoning)
	}
}
