package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"jobscout/internal/model"
	"jobscout/internal/store"
)

var searchDryRun bool

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run one aggregation cycle and exit",
	Long:  "One-shot run: fetches every enabled source, filters, scores, persists, and notifies, then exits.",
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&searchDryRun, "dry-run", false, "do not persist results; every fetched job counts as new")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	var jobStore model.JobStore
	if searchDryRun {
		logger.Info("dry-run mode enabled, results will not be persisted")
		jobStore = store.NewNopStore()
	} else {
		sqlStore, err := store.NewSQLiteStore(cfg.StorePath)
		if err != nil {
			logger.Error("failed to open store", "error", err)
			os.Exit(1)
		}
		defer sqlStore.Close()
		jobStore = sqlStore
	}

	p, err := buildPipeline(cfg, jobStore, logger)
	if err != nil {
		logger.Error("failed to build pipeline", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, err := p.Run(ctx)
	if err != nil {
		logger.Error("run failed", "error", err)
		os.Exit(1)
	}

	logger.Info("run complete",
		"run_id", summary.RunID,
		"duration", summary.Duration.String(),
		"fetched", summary.Fetched,
		"unique", summary.Unique,
		"new", summary.New,
		"eligible", summary.Eligible,
		"matched", summary.Matched,
		"urgent", summary.Urgent,
	)
	for _, src := range summary.Fetch.Sources {
		if src.Err != nil {
			logger.Warn("source failed", "source", src.Source, "error", src.Err)
			continue
		}
		logger.Info("source ok", "source", src.Source, "count", src.Count, "elapsed", src.Elapsed.String())
	}
	return nil
}
