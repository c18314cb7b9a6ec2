package registry

import (
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"jobscout/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func baseConfig() *config.Config {
	return &config.Config{
		Fetch: config.FetchConfig{
			GlobalDeadline: 4 * time.Minute,
			DefaultTimeout: 60 * time.Second,
			DefaultDelay:   500 * time.Millisecond,
		},
		Sources: config.SourcesConfig{},
	}
}

func TestBuild_OrderAndDefaults(t *testing.T) {
	cfg := baseConfig()
	cfg.Sources["lever"] = config.SourceConfig{Enabled: true, Boards: []string{"acme"}}
	cfg.Sources["greenhouse"] = config.SourceConfig{
		Enabled: true,
		Boards:  []string{"acme"},
		Timeout: 10 * time.Second,
	}
	cfg.Sources["rss"] = config.SourceConfig{Enabled: false}

	entries, err := Build(cfg, http.DefaultClient, discardLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	// Registration order is fixed, not config map order.
	if entries[0].Name != "greenhouse" || entries[1].Name != "lever" {
		t.Errorf("unexpected order: %s, %s", entries[0].Name, entries[1].Name)
	}
	if entries[0].Timeout != 10*time.Second {
		t.Errorf("expected per-source timeout override, got %v", entries[0].Timeout)
	}
	if entries[1].Timeout != 60*time.Second {
		t.Errorf("expected default timeout, got %v", entries[1].Timeout)
	}
	if entries[0].Adapter.Name() != "greenhouse" {
		t.Errorf("unexpected adapter name: %s", entries[0].Adapter.Name())
	}
}

func TestBuild_RetryWrapKeepsName(t *testing.T) {
	cfg := baseConfig()
	cfg.Sources["lever"] = config.SourceConfig{Enabled: true, Boards: []string{"acme"}, Retries: 2}

	entries, err := Build(cfg, http.DefaultClient, discardLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Adapter.Name() != "lever" {
		t.Errorf("retry wrapper must keep the source name, got %s", entries[0].Adapter.Name())
	}
}

func TestBuild_UnknownSource(t *testing.T) {
	cfg := baseConfig()
	cfg.Sources["monster"] = config.SourceConfig{Enabled: true}

	if _, err := Build(cfg, http.DefaultClient, discardLogger()); err == nil {
		t.Fatal("expected error for unknown source, got nil")
	}
}

func TestBuild_NoSourcesEnabled(t *testing.T) {
	cfg := baseConfig()
	cfg.Sources["lever"] = config.SourceConfig{Enabled: false}

	if _, err := Build(cfg, http.DefaultClient, discardLogger()); err == nil {
		t.Fatal("expected error when nothing is enabled, got nil")
	}
}
