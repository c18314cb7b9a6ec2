package adapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"jobscout/internal/model"
)

func TestLeverFetch_Success(t *testing.T) {
	payload := `[
		{
			"id": "a1b2c3",
			"text": "Senior Product Manager",
			"descriptionPlain": "Lead the growth product area.",
			"categories": {
				"location": "New York",
				"commitment": "Full-time",
				"allLocations": ["New York", "Remote"]
			},
			"createdAt": 1754040000000,
			"hostedUrl": "https://jobs.lever.co/acme/a1b2c3"
		},
		{
			"id": "d4e5f6",
			"text": "Account Executive",
			"descriptionPlain": "Carry a quota.",
			"categories": {"location": "Chicago"},
			"createdAt": 1754040000000,
			"hostedUrl": "https://jobs.lever.co/acme/d4e5f6"
		}
	]`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("mode") != "json" {
			t.Errorf("expected mode=json, got %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	a := NewLeverAdapter([]string{"acme"}, noPacer(), testClient(srv), discardLogger())

	jobs, err := a.Fetch(context.Background(), model.Query{Keywords: []string{"product manager"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job after keyword filter, got %d", len(jobs))
	}

	j := jobs[0]
	if j.ExternalID != "lever_a1b2c3" {
		t.Errorf("expected external ID lever_a1b2c3, got %s", j.ExternalID)
	}
	if j.Location != "New York, Remote" {
		t.Errorf("expected joined allLocations, got %s", j.Location)
	}
	if j.JobType != "Full-time" {
		t.Errorf("expected job type Full-time, got %s", j.JobType)
	}
	if j.PostedDate.IsZero() {
		t.Error("expected posted date to be set")
	}
}

func TestLeverFetch_EmptyBoard(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	a := NewLeverAdapter([]string{"empty-co"}, noPacer(), testClient(srv), discardLogger())

	jobs, err := a.Fetch(context.Background(), model.Query{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 0 {
		t.Fatalf("expected 0 jobs, got %d", len(jobs))
	}
}
