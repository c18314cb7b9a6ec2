// Package registry turns source configuration into a deterministic, ordered
// list of ready-to-run adapters.
package registry

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"jobscout/internal/adapter"
	"jobscout/internal/config"
	"jobscout/internal/model"
	"jobscout/internal/ratelimit"
	"jobscout/internal/retry"
)

// sourceOrder fixes the registration order so fetch reports and merged
// results are stable run to run regardless of config map iteration.
var sourceOrder = []string{
	"linkedin",
	"indeed",
	"greenhouse",
	"lever",
	"ashby",
	"rss",
	"careers",
	"emailalert",
}

// Entry is one registered source with its resolved fetch policy.
type Entry struct {
	Name    string
	Adapter model.SourceAdapter
	Timeout time.Duration
}

// Build constructs an adapter for every enabled source, wraps it with retry
// when configured, and resolves per-source timeouts against the fetch
// defaults. Config entries naming an unknown source are an error.
func Build(cfg *config.Config, client *http.Client, logger *slog.Logger) ([]Entry, error) {
	for name := range cfg.Sources {
		if !knownSource(name) {
			return nil, fmt.Errorf("unknown source %q in config", name)
		}
	}

	var entries []Entry
	for _, name := range sourceOrder {
		sc, ok := cfg.Sources[name]
		if !ok || !sc.Enabled {
			continue
		}

		minDelay := sc.MinDelay
		if minDelay == 0 {
			minDelay = cfg.Fetch.DefaultDelay
		}
		pacer := ratelimit.NewPacer(minDelay)

		src, err := newAdapter(name, sc, pacer, client, logger)
		if err != nil {
			return nil, err
		}

		if sc.Retries > 0 {
			src = retry.New(src, sc.Retries, time.Second, logger)
		}

		timeout := sc.Timeout
		if timeout == 0 {
			timeout = cfg.Fetch.DefaultTimeout
		}

		entries = append(entries, Entry{
			Name:    name,
			Adapter: src,
			Timeout: timeout,
		})
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("no sources enabled")
	}

	return entries, nil
}

func newAdapter(name string, sc config.SourceConfig, pacer *ratelimit.Pacer, client *http.Client, logger *slog.Logger) (model.SourceAdapter, error) {
	switch name {
	case "linkedin":
		return adapter.NewLinkedInAdapter(sc.APIKey, pacer, client, logger), nil
	case "indeed":
		return adapter.NewIndeedAdapter(sc.APIKey, pacer, client, logger), nil
	case "greenhouse":
		return adapter.NewGreenhouseAdapter(sc.Boards, pacer, client, logger), nil
	case "lever":
		return adapter.NewLeverAdapter(sc.Boards, pacer, client, logger), nil
	case "ashby":
		return adapter.NewAshbyAdapter(sc.Boards, pacer, client, logger), nil
	case "rss":
		return adapter.NewRSSAdapter(sc.Feeds, pacer, client, logger), nil
	case "careers":
		return adapter.NewCareersAdapter(sc.Pages, pacer, client, logger), nil
	case "emailalert":
		return adapter.NewEmailAlertAdapter(sc, logger), nil
	default:
		return nil, fmt.Errorf("unknown source %q", name)
	}
}

func knownSource(name string) bool {
	for _, s := range sourceOrder {
		if s == name {
			return true
		}
	}
	return false
}
