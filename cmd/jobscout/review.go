package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"jobscout/internal/review"
	"jobscout/internal/store"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Browse stored jobs interactively (TUI)",
	Long:  "Opens the ranked job list in a terminal UI. Keys set review status: a=applied, v=reviewed, x=rejected, e=expired, n=new.",
	RunE:  runReview,
}

func init() {
	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	sqlStore, err := store.NewSQLiteStore(cfg.StorePath)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer sqlStore.Close()

	jobs, err := sqlStore.ListRanked(0)
	if err != nil {
		logger.Error("failed to list jobs", "error", err)
		os.Exit(1)
	}
	if len(jobs) == 0 {
		fmt.Println("No jobs stored yet. Run `jobscout search` first.")
		return nil
	}

	return review.Run(jobs, sqlStore)
}
