package adapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"jobscout/internal/config"
	"jobscout/internal/filter"
	"jobscout/internal/model"
)

func TestRSSFetch_Success(t *testing.T) {
	payload := `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>NYC Product Jobs</title>
    <item>
      <title>Acme: Senior Product Manager</title>
      <link>https://example.com/jobs/1</link>
      <description>&lt;p&gt;Lead product for our payments team.&lt;/p&gt;</description>
      <pubDate>Fri, 01 Aug 2026 09:00:00 -0400</pubDate>
      <guid>feed-guid-1</guid>
    </item>
    <item>
      <title>Warehouse Associate</title>
      <link>https://example.com/jobs/2</link>
      <description>Forklift certified.</description>
      <pubDate>Fri, 01 Aug 2026 09:00:00 -0400</pubDate>
      <guid>feed-guid-2</guid>
    </item>
  </channel>
</rss>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	feeds := []config.FeedConfig{{Name: "NYC Product Jobs", URL: srv.URL, Location: "New York, NY"}}
	a := NewRSSAdapter(feeds, noPacer(), srv.Client(), discardLogger())

	jobs, err := a.Fetch(context.Background(), model.Query{Keywords: []string{"product manager"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job after keyword filter, got %d", len(jobs))
	}

	j := jobs[0]
	if j.ExternalID != "rss_feed-guid-1" {
		t.Errorf("expected external ID rss_feed-guid-1, got %s", j.ExternalID)
	}
	if j.Company != "Acme" {
		t.Errorf("expected company Acme from title prefix, got %s", j.Company)
	}
	if j.Title != "Senior Product Manager" {
		t.Errorf("expected title Senior Product Manager, got %s", j.Title)
	}
	if j.Description != "Lead product for our payments team." {
		t.Errorf("unexpected description: %q", j.Description)
	}
	if j.Location != "New York, NY" {
		t.Errorf("expected feed location stamped on the job, got %q", j.Location)
	}
}

func TestRSSFetch_JobsPassEligibility(t *testing.T) {
	payload := `<rss version="2.0"><channel>
  <item>
    <title>Acme: Senior Product Manager</title>
    <link>https://example.com/jobs/1</link>
    <description>Own the roadmap.</description>
    <guid>g1</guid>
  </item>
  <item>
    <title>Globex: Senior Product Manager (Remote)</title>
    <link>https://example.com/jobs/2</link>
    <description>Fully distributed team.</description>
    <guid>g2</guid>
  </item>
</channel></rss>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	feeds := []config.FeedConfig{{Name: "feed", URL: srv.URL, Location: "Manhattan, NY"}}
	a := NewRSSAdapter(feeds, noPacer(), srv.Client(), discardLogger())

	jobs, err := a.Fetch(context.Background(), model.Query{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}

	e := filter.New(config.FilterConfig{
		Location: config.LocationRules{
			AlwaysAccept: []string{"remote"},
			PrimaryAreas: []string{"manhattan"},
		},
		Role: config.RoleRules{
			FunctionKeyword:   "product",
			QualifierKeywords: []string{"manager"},
			MinSeniority:      "Senior",
		},
	})
	eligible := e.Apply(jobs)
	if len(eligible) != 2 {
		t.Fatalf("expected both feed jobs to survive eligibility, got %d", len(eligible))
	}
}

func TestRSSFetch_RemoteHintWithoutFeedLocation(t *testing.T) {
	payload := `<rss version="2.0"><channel><item>
    <title>Senior Product Manager (Remote)</title>
    <link>https://example.com/jobs/1</link>
    <guid>g1</guid>
  </item></channel></rss>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	feeds := []config.FeedConfig{{Name: "feed", URL: srv.URL}}
	a := NewRSSAdapter(feeds, noPacer(), srv.Client(), discardLogger())

	jobs, err := a.Fetch(context.Background(), model.Query{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}
	if jobs[0].Location != "Remote" {
		t.Errorf("expected remote hint from the title, got %q", jobs[0].Location)
	}
}

func TestRSSFetch_BrokenFeedSkipped(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer bad.Close()
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<rss><channel><item><title>Product Manager</title><link>https://example.com/1</link><guid>g1</guid></item></channel></rss>`))
	}))
	defer good.Close()

	feeds := []config.FeedConfig{
		{Name: "broken", URL: bad.URL},
		{Name: "good", URL: good.URL},
	}
	a := NewRSSAdapter(feeds, noPacer(), http.DefaultClient, discardLogger())

	jobs, err := a.Fetch(context.Background(), model.Query{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job from the good feed, got %d", len(jobs))
	}
	if jobs[0].Company != "good" {
		t.Errorf("expected feed name as company fallback, got %s", jobs[0].Company)
	}
}

func TestSplitFeedTitle(t *testing.T) {
	tests := []struct {
		raw         string
		feedName    string
		wantCompany string
		wantTitle   string
	}{
		{"Acme: Product Manager", "feed", "Acme", "Product Manager"},
		{"Product Manager", "feed", "feed", "Product Manager"},
		{"Acme: PM: Growth", "feed", "Acme", "PM: Growth"},
	}
	for _, tt := range tests {
		company, title := splitFeedTitle(tt.raw, tt.feedName)
		if company != tt.wantCompany || title != tt.wantTitle {
			t.Errorf("splitFeedTitle(%q) = (%q, %q), want (%q, %q)",
				tt.raw, company, title, tt.wantCompany, tt.wantTitle)
		}
	}
}
