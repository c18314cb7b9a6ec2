package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// Secrets (API keys, webhook URLs) commonly live in a local .env during
	// development; a missing file is not an error.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
