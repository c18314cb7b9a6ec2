package store

import (
	"path/filepath"
	"testing"
	"time"

	"jobscout/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleJob(id string, matchScore float64, locationScore int) model.Job {
	return model.Job{
		ExternalID:    id,
		Source:        "greenhouse",
		Title:         "Product Manager",
		Company:       "Acme",
		Location:      "New York, NY",
		URL:           "https://example.com/" + id,
		PostedDate:    time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		MatchScore:    matchScore,
		LocationScore: locationScore,
		Status:        model.StatusNew,
	}
}

func TestUpsertThenExistingExternalIDs(t *testing.T) {
	s := newTestStore(t)

	err := s.UpsertJobs([]model.Job{sampleJob("greenhouse_1", 80, 100), sampleJob("lever_a", 75, 80)})
	if err != nil {
		t.Fatalf("UpsertJobs: %v", err)
	}

	ids, err := s.ExistingExternalIDs()
	if err != nil {
		t.Fatalf("ExistingExternalIDs: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 IDs, got %d", len(ids))
	}
	if _, ok := ids["greenhouse_1"]; !ok {
		t.Error("expected greenhouse_1 to be recorded")
	}
}

func TestUpsertFirstWriteWins(t *testing.T) {
	s := newTestStore(t)

	first := sampleJob("greenhouse_1", 90, 100)
	if err := s.UpsertJobs([]model.Job{first}); err != nil {
		t.Fatalf("first UpsertJobs: %v", err)
	}

	second := sampleJob("greenhouse_1", 10, 50)
	second.Title = "Mutated Title"
	if err := s.UpsertJobs([]model.Job{second}); err != nil {
		t.Fatalf("second UpsertJobs: %v", err)
	}

	jobs, err := s.ListRanked(0)
	if err != nil {
		t.Fatalf("ListRanked: %v", err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 job, got %d", len(jobs))
	}
	if jobs[0].Title != "Product Manager" {
		t.Errorf("expected original row preserved, got title %q", jobs[0].Title)
	}
	if jobs[0].MatchScore != 90 {
		t.Errorf("expected original score 90, got %v", jobs[0].MatchScore)
	}
}

func TestUpsertIDLessJobsAllStored(t *testing.T) {
	s := newTestStore(t)

	first := sampleJob("", 80, 100)
	first.Title = "Product Manager"
	second := sampleJob("", 70, 80)
	second.Title = "Senior Product Manager"
	second.Company = "Globex"

	if err := s.UpsertJobs([]model.Job{first, second}); err != nil {
		t.Fatalf("UpsertJobs: %v", err)
	}

	jobs, err := s.ListRanked(0)
	if err != nil {
		t.Fatalf("ListRanked: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected both ID-less jobs stored, got %d", len(jobs))
	}

	// ID-less rows are invisible to the gate, never reported as known.
	ids, err := s.ExistingExternalIDs()
	if err != nil {
		t.Fatalf("ExistingExternalIDs: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("expected no known IDs, got %v", ids)
	}
}

func TestListRankedOrder(t *testing.T) {
	s := newTestStore(t)

	err := s.UpsertJobs([]model.Job{
		sampleJob("j1", 95, 50),
		sampleJob("j2", 60, 100),
		sampleJob("j3", 90, 100),
	})
	if err != nil {
		t.Fatalf("UpsertJobs: %v", err)
	}

	jobs, err := s.ListRanked(0)
	if err != nil {
		t.Fatalf("ListRanked: %v", err)
	}
	want := []string{"j3", "j2", "j1"}
	for i, id := range want {
		if jobs[i].ExternalID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, jobs[i].ExternalID)
		}
	}

	limited, err := s.ListRanked(2)
	if err != nil {
		t.Fatalf("ListRanked limited: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("expected 2 jobs with limit, got %d", len(limited))
	}
}

func TestUpdateStatus(t *testing.T) {
	s := newTestStore(t)

	if err := s.UpsertJobs([]model.Job{sampleJob("j1", 80, 100)}); err != nil {
		t.Fatalf("UpsertJobs: %v", err)
	}

	if err := s.UpdateStatus("j1", model.StatusApplied); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	jobs, err := s.ListRanked(0)
	if err != nil {
		t.Fatalf("ListRanked: %v", err)
	}
	if jobs[0].Status != model.StatusApplied {
		t.Errorf("expected status applied, got %s", jobs[0].Status)
	}

	if err := s.UpdateStatus("missing", model.StatusApplied); err == nil {
		t.Error("expected error for unknown external ID")
	}
}

func TestStatusCounts(t *testing.T) {
	s := newTestStore(t)

	err := s.UpsertJobs([]model.Job{
		sampleJob("j1", 80, 100),
		sampleJob("j2", 70, 80),
		sampleJob("j3", 60, 60),
	})
	if err != nil {
		t.Fatalf("UpsertJobs: %v", err)
	}
	if err := s.UpdateStatus("j2", model.StatusRejected); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	counts, err := s.StatusCounts()
	if err != nil {
		t.Fatalf("StatusCounts: %v", err)
	}
	if counts[model.StatusNew] != 2 {
		t.Errorf("expected 2 new, got %d", counts[model.StatusNew])
	}
	if counts[model.StatusRejected] != 1 {
		t.Errorf("expected 1 rejected, got %d", counts[model.StatusRejected])
	}
}
