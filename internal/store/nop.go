package store

import "jobscout/internal/model"

// NopStore is a no-op store used in dry-run mode. Nothing is persisted, so
// every job appears new on each run.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) ExistingExternalIDs() (map[string]struct{}, error) { return map[string]struct{}{}, nil }
func (s *NopStore) UpsertJobs(jobs []model.Job) error                 { return nil }
