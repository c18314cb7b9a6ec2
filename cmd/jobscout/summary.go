package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"jobscout/internal/model"
	"jobscout/internal/store"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print stored job counts by status",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	sqlStore, err := store.NewSQLiteStore(cfg.StorePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open store: %v\n", err)
		os.Exit(1)
	}
	defer sqlStore.Close()

	counts, err := sqlStore.StatusCounts()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to count jobs: %v\n", err)
		os.Exit(1)
	}

	order := []model.Status{
		model.StatusNew,
		model.StatusReviewed,
		model.StatusApplied,
		model.StatusRejected,
		model.StatusExpired,
	}
	total := 0
	for _, status := range order {
		fmt.Printf("%-10s %d\n", status, counts[status])
		total += counts[status]
	}
	fmt.Printf("\nTotal: %d jobs\n", total)
	return nil
}
