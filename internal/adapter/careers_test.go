package adapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"jobscout/internal/config"
	"jobscout/internal/model"
)

func TestCareersFetch_Success(t *testing.T) {
	page := `<html><body>
		<div class="openings">
			<div class="job">
				<h3 class="title">Product Manager, Core</h3>
				<span class="loc">New York, NY</span>
				<a class="apply" href="/careers/pm-core">Apply</a>
			</div>
			<div class="job">
				<h3 class="title">Site Reliability Engineer</h3>
				<span class="loc">Remote</span>
				<a class="apply" href="/careers/sre">Apply</a>
			</div>
			<div class="job">
				<h3 class="title"></h3>
				<a class="apply" href="/careers/empty">Apply</a>
			</div>
		</div>
	</body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(page))
	}))
	defer srv.Close()

	pages := []config.PageConfig{{
		Company:          "Acme",
		URL:              srv.URL + "/careers",
		JobSelector:      "div.job",
		TitleSelector:    "h3.title",
		LocationSelector: "span.loc",
		LinkSelector:     "a.apply",
	}}
	a := NewCareersAdapter(pages, noPacer(), srv.Client(), discardLogger())

	jobs, err := a.Fetch(context.Background(), model.Query{Keywords: []string{"product manager"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job after keyword filter, got %d", len(jobs))
	}

	j := jobs[0]
	if j.Title != "Product Manager, Core" {
		t.Errorf("unexpected title: %q", j.Title)
	}
	if j.Company != "Acme" {
		t.Errorf("expected company Acme, got %s", j.Company)
	}
	if j.Location != "New York, NY" {
		t.Errorf("unexpected location: %q", j.Location)
	}
	if !strings.HasPrefix(j.URL, srv.URL) || !strings.HasSuffix(j.URL, "/careers/pm-core") {
		t.Errorf("expected absolute link, got %s", j.URL)
	}
	if j.ExternalID != "careers_"+j.URL {
		t.Errorf("expected link-derived external ID, got %s", j.ExternalID)
	}
}

func TestCareersFetch_PageErrorSkipped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	pages := []config.PageConfig{{
		Company:     "Walled Garden",
		URL:         srv.URL,
		JobSelector: "div.job",
	}}
	a := NewCareersAdapter(pages, noPacer(), srv.Client(), discardLogger())

	jobs, err := a.Fetch(context.Background(), model.Query{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 0 {
		t.Fatalf("expected 0 jobs, got %d", len(jobs))
	}
}
