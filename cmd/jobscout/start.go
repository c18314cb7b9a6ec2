package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"jobscout/internal/httpapi"
	"jobscout/internal/scheduler"
	"jobscout/internal/store"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the scheduled daemon",
	Long:  "Runs the aggregation pipeline at the configured wall-clock times; blocks until SIGINT/SIGTERM.",
	RunE:  runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

// runnerFunc adapts a closure to the scheduler's Runner interface.
type runnerFunc func(ctx context.Context) error

func (f runnerFunc) Run(ctx context.Context) error { return f(ctx) }

func runStart(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("config loaded",
		"keywords", cfg.Search.Keywords,
		"schedule", cfg.Schedule.Times,
		"scoring", cfg.Scoring.Enabled,
		"store", cfg.StorePath,
	)

	// Two daemons writing the same store would race each other through the
	// ingestion gate.
	lock := flock.New(cfg.StorePath + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		logger.Error("failed to acquire instance lock", "error", err)
		os.Exit(1)
	}
	if !locked {
		logger.Error("another instance is already running", "lock", lock.Path())
		os.Exit(1)
	}
	defer lock.Unlock()

	sqlStore, err := store.NewSQLiteStore(cfg.StorePath)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer sqlStore.Close()

	p, err := buildPipeline(cfg, sqlStore, logger)
	if err != nil {
		logger.Error("failed to build pipeline", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner := runnerFunc(func(ctx context.Context) error {
		summary, err := p.Run(ctx)
		if err != nil {
			return err
		}
		logger.Info("run complete",
			"run_id", summary.RunID,
			"duration", summary.Duration.String(),
			"fetched", summary.Fetched,
			"new", summary.New,
			"matched", summary.Matched,
			"urgent", summary.Urgent,
		)
		return nil
	})
	sched, err := scheduler.New(runner, cfg.Schedule.Times, logger)
	if err != nil {
		logger.Error("failed to build scheduler", "error", err)
		os.Exit(1)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return sched.Run(gctx) })
	if cfg.HTTP.Enabled {
		api := httpapi.New(cfg.HTTP.Addr, sqlStore, logger)
		g.Go(func() error { return api.Run(gctx) })
	}

	if err := g.Wait(); err != nil {
		logger.Error("daemon error", "error", err)
		os.Exit(1)
	}

	logger.Info("goodbye")
	return nil
}
