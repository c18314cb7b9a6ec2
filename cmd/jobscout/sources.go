package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List all configured sources",
	Long:  "Reads the config and prints a table of all configured sources.",
	RunE:  runSources,
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

func runSources(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	names := make([]string, 0, len(cfg.Sources))
	for name := range cfg.Sources {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Printf("%-15s %-10s %-10s %s\n", "Source", "Status", "Retries", "Timeout")
	fmt.Println(strings.Repeat("─", 50))

	enabled, disabled := 0, 0
	for _, name := range names {
		src := cfg.Sources[name]
		status := "enabled"
		if !src.Enabled {
			status = "disabled"
			disabled++
		} else {
			enabled++
		}
		timeout := src.Timeout
		if timeout == 0 {
			timeout = cfg.Fetch.DefaultTimeout
		}
		fmt.Printf("%-15s %-10s %-10d %s\n", name, status, src.Retries, timeout.String())
	}

	fmt.Printf("\nTotal: %d sources (%d enabled, %d disabled)\n", len(cfg.Sources), enabled, disabled)
	return nil
}
