package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"jobscout/internal/ai"
	"jobscout/internal/config"
	"jobscout/internal/fetch"
	"jobscout/internal/filter"
	"jobscout/internal/model"
	"jobscout/internal/notifier"
	"jobscout/internal/pipeline"
	"jobscout/internal/registry"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "jobscout",
	Short: "Job scout — aggregate, score, and rank postings from every source",
	Long:  "JobScout fetches postings from job boards, feeds, and alert emails, filters them against your criteria, and ranks the matches.",
	// Default to `start` so that `jobscout` with no args runs the daemon.
	// This preserves compatibility with systemd unit files that invoke the binary directly.
	RunE: runStart,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JOBSCOUT_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > JOBSCOUT_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if env := os.Getenv("JOBSCOUT_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

func setupNotifier(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) model.Notifier {
	switch cfg.Notification.Type {
	case "slack":
		logger.Info("using slack notifier")
		return notifier.NewSlackNotifier(cfg.Notification.WebhookURL, httpClient, logger)
	default:
		return notifier.NewLogNotifier(logger)
	}
}

func setupScorer(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) model.Scorer {
	if !cfg.Scoring.Enabled {
		return ai.NewNopScorer()
	}
	provider := ai.NewOpenAIProvider(cfg.Scoring.BaseURL, cfg.Scoring.APIKey, cfg.Scoring.Model, httpClient)
	logger.Info("ai scoring enabled", "model", cfg.Scoring.Model)
	return ai.NewMatcher(provider, cfg.Profile, ai.JobMatchTemplate, logger)
}

// buildPipeline assembles the full run: registry → orchestrator → filters →
// scorer → notifier, persisting into jobStore.
func buildPipeline(cfg *config.Config, jobStore model.JobStore, logger *slog.Logger) (*pipeline.Pipeline, error) {
	httpClient := &http.Client{Timeout: 30 * time.Second}

	entries, err := registry.Build(cfg, httpClient, logger)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		logger.Info("registered source", "source", e.Name, "timeout", e.Timeout.String())
	}

	orch := fetch.New(entries, cfg.Fetch.GlobalDeadline, logger)
	filters := filter.New(cfg.Filters)
	scorer := setupScorer(cfg, httpClient, logger)
	n := setupNotifier(cfg, httpClient, logger)

	opts := pipeline.Options{
		Query: model.Query{
			Keywords:  cfg.Search.Keywords,
			Locations: cfg.Search.Locations,
		},
		ScoringEnabled:  cfg.Scoring.Enabled,
		ScoreTimeout:    cfg.Scoring.Timeout,
		MinMatchScore:   cfg.Scoring.MinMatchScore,
		UrgentThreshold: cfg.Notification.UrgentThreshold,
		UrgentLimit:     cfg.Notification.UrgentLimit,
	}
	return pipeline.New(orch, filters, scorer, jobStore, n, opts, logger), nil
}
