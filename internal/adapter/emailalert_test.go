package adapter

import (
	"context"
	"testing"
	"time"

	"jobscout/internal/config"
	"jobscout/internal/filter"
	"jobscout/internal/model"
)

// fakeMailbox serves canned messages without a real IMAP connection.
type fakeMailbox struct {
	msgs   []alertMessage
	closed bool
}

func (f *fakeMailbox) UnseenFrom(ctx context.Context, sender string, max int) ([]alertMessage, error) {
	return f.msgs, nil
}

func (f *fakeMailbox) Close() error {
	f.closed = true
	return nil
}

func TestEmailAlertFetch_ExtractsPostings(t *testing.T) {
	// Quoted-printable body with a soft line break splitting the job URL.
	body := "<html><body>" +
		"<a href=3D\"https://www.linkedin.com/jobs/view/40=\r\n" +
		"01234?trk=3Dalert\">Product Manager =C2=B7 Acme</a>" +
		"<a href=3D\"https://www.linkedin.com/jobs/view/4001234?trk=3Ddup\">Product Manager =C2=B7 Acme</a>" +
		"<a href=3D\"https://www.linkedin.com/comm/unsubscribe\">Unsubscribe</a>" +
		"</body></html>"

	mbox := &fakeMailbox{msgs: []alertMessage{{
		Subject: "30 new jobs for product manager",
		Date:    time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
		Body:    []byte(body),
	}}}

	cfg := config.SourceConfig{
		IMAPAddr:        "imap.example.com:993",
		IMAPUser:        "user",
		IMAPPass:        "pass",
		AlertSender:     "jobalerts@example.com",
		DefaultLocation: "New York, NY",
	}
	a := NewEmailAlertAdapter(cfg, discardLogger())
	a.dial = func(ctx context.Context) (alertMailbox, error) { return mbox, nil }

	jobs, err := a.Fetch(context.Background(), model.Query{Keywords: []string{"product manager"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 deduplicated posting, got %d", len(jobs))
	}

	j := jobs[0]
	if j.ExternalID != "linkedin_4001234" {
		t.Errorf("expected external ID linkedin_4001234, got %s", j.ExternalID)
	}
	if j.Title != "Product Manager" {
		t.Errorf("expected title Product Manager, got %q", j.Title)
	}
	if j.Company != "Acme" {
		t.Errorf("expected company Acme, got %q", j.Company)
	}
	if j.Location != "New York, NY" {
		t.Errorf("expected the configured default location, got %q", j.Location)
	}
	if j.URL != "https://www.linkedin.com/jobs/view/4001234" {
		t.Errorf("unexpected URL: %s", j.URL)
	}
	if !j.PostedDate.Equal(time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("expected message date as posted date, got %v", j.PostedDate)
	}
	if !mbox.closed {
		t.Error("expected mailbox to be closed")
	}
}

func TestEmailAlertFetch_MissingCredentials(t *testing.T) {
	a := NewEmailAlertAdapter(config.SourceConfig{}, discardLogger())

	_, err := a.Fetch(context.Background(), model.Query{})
	if err == nil {
		t.Fatal("expected error for missing credentials, got nil")
	}
}

func TestEmailAlertFetch_AnchorLocationPassesEligibility(t *testing.T) {
	body := `<html><body>
<a href="https://www.linkedin.com/jobs/view/777">Senior Product Manager · Acme · Manhattan, NY</a>
</body></html>`

	mbox := &fakeMailbox{msgs: []alertMessage{{
		Subject: "1 new job",
		Date:    time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
		Body:    []byte(body),
	}}}

	cfg := config.SourceConfig{
		IMAPAddr: "imap.example.com:993",
		IMAPUser: "user",
		IMAPPass: "pass",
	}
	a := NewEmailAlertAdapter(cfg, discardLogger())
	a.dial = func(ctx context.Context) (alertMailbox, error) { return mbox, nil }

	jobs, err := a.Fetch(context.Background(), model.Query{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 posting, got %d", len(jobs))
	}
	if jobs[0].Location != "Manhattan, NY" {
		t.Errorf("expected anchor location, got %q", jobs[0].Location)
	}

	e := filter.New(config.FilterConfig{
		Location: config.LocationRules{PrimaryAreas: []string{"manhattan"}},
		Role: config.RoleRules{
			FunctionKeyword:   "product",
			QualifierKeywords: []string{"manager"},
			MinSeniority:      "Senior",
		},
	})
	if eligible := e.Apply(jobs); len(eligible) != 1 {
		t.Fatalf("expected the alert job to survive eligibility, got %d", len(eligible))
	}
}

func TestSplitAnchorText(t *testing.T) {
	tests := []struct {
		raw          string
		wantTitle    string
		wantCompany  string
		wantLocation string
	}{
		{"Product Manager · Acme", "Product Manager", "Acme", ""},
		{"Product Manager - Acme", "Product Manager", "Acme", ""},
		{"Product Manager · Acme · New York, NY", "Product Manager", "Acme", "New York, NY"},
		{"  Product\n Manager  ", "Product Manager", "", ""},
	}
	for _, tt := range tests {
		title, company, location := splitAnchorText(tt.raw)
		if title != tt.wantTitle || company != tt.wantCompany || location != tt.wantLocation {
			t.Errorf("splitAnchorText(%q) = (%q, %q, %q), want (%q, %q, %q)",
				tt.raw, title, company, location, tt.wantTitle, tt.wantCompany, tt.wantLocation)
		}
	}
}
