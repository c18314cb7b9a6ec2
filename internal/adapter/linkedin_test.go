package adapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"jobscout/internal/model"
)

func TestLinkedInFetch_QueryGrid(t *testing.T) {
	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("unexpected Authorization header: %q", got)
		}
		if got := r.Header.Get("X-Restli-Protocol-Version"); got != "2.0.0" {
			t.Errorf("unexpected protocol header: %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"elements": [
				{
					"id": 9001,
					"title": "Product Manager",
					"companyName": "Acme",
					"location": "New York, NY",
					"description": "<p>Own the roadmap.</p>",
					"url": "https://example.com/9001",
					"listedAt": 1754040000000,
					"employmentType": "Full-time"
				}
			]
		}`))
	}))
	defer srv.Close()

	a := NewLinkedInAdapter("test-token", noPacer(), testClient(srv), discardLogger())

	q := model.Query{
		Keywords:  []string{"product manager", "pm"},
		Locations: []string{"New York", "Remote"},
	}
	jobs, err := a.Fetch(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := requests.Load(); got != 4 {
		t.Errorf("expected 4 requests (2 keywords x 2 locations), got %d", got)
	}
	if len(jobs) != 4 {
		t.Fatalf("expected 4 jobs, got %d", len(jobs))
	}
	j := jobs[0]
	if j.ExternalID != "linkedin_9001" {
		t.Errorf("expected external ID linkedin_9001, got %s", j.ExternalID)
	}
	if j.Description != "Own the roadmap." {
		t.Errorf("unexpected description: %q", j.Description)
	}
}

func TestLinkedInFetch_MissingAPIKey(t *testing.T) {
	a := NewLinkedInAdapter("", noPacer(), http.DefaultClient, discardLogger())

	_, err := a.Fetch(context.Background(), model.Query{Keywords: []string{"pm"}, Locations: []string{"NYC"}})
	if err == nil {
		t.Fatal("expected error for missing API key, got nil")
	}
}

func TestLinkedInFetch_ServerErrorSkipsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	a := NewLinkedInAdapter("test-token", noPacer(), testClient(srv), discardLogger())

	jobs, err := a.Fetch(context.Background(), model.Query{Keywords: []string{"pm"}, Locations: []string{"NYC"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 0 {
		t.Fatalf("expected 0 jobs, got %d", len(jobs))
	}
}
