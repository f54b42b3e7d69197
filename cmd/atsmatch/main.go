// Package main provides the entry point for the atsmatch CLI and server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "atsmatch",
	Short: "Offline job-description to CV keyword matching",
	Long:  "atsmatch extracts ATS-style keywords from job descriptions, scores them against a CV snapshot, and merges missing keywords back into the CV. Works fully offline with English and Romanian postings.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
