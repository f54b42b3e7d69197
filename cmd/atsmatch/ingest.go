package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest a job posting from a text file or URL",
	Long:  "Ingest a job posting from either a text file or URL, clean the content, and print or save the normalized text.",
	RunE:  runIngest,
}

var (
	ingestTextFile string
	ingestURL      string
	ingestOut      string
)

func init() {
	ingestCmd.Flags().StringVarP(&ingestTextFile, "job", "j", "", "Path to text file containing the job posting (use - for stdin)")
	ingestCmd.Flags().StringVarP(&ingestURL, "job-url", "u", "", "URL to fetch the job posting from")
	ingestCmd.Flags().StringVarP(&ingestOut, "out", "o", "", "Output file for the cleaned text (default: stdout)")

	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	text, err := resolveJobText(cmd.Context(), ingestTextFile, ingestURL)
	if err != nil {
		return err
	}

	if ingestOut == "" {
		fmt.Println(text)
		return nil
	}
	if err := os.WriteFile(ingestOut, []byte(text+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	fmt.Printf("Cleaned job posting written to %s\n", ingestOut)
	return nil
}
