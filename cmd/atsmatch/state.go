package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mpopescu/atsmatch/internal/analysis"
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Inspect and manage the analysis state file",
}

var stateShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show analyzed jobs from a state file",
	RunE:  runStateShow,
}

var stateClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the analysis state file",
	RunE:  runStateClear,
}

var stateExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the analysis state as JSON to stdout or a file",
	RunE:  runStateExport,
}

var stateImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import analysis state from a JSON export",
	Args:  cobra.ExactArgs(1),
	RunE:  runStateImport,
}

var (
	stateFile        string
	stateKeepHistory bool
	stateExportOut   string
)

func init() {
	stateCmd.PersistentFlags().StringVar(&stateFile, "state", "", "Path to the state file (required)")
	stateClearCmd.Flags().BoolVar(&stateKeepHistory, "keep-history", false, "Keep analyzed jobs and only clear the active selection")
	stateExportCmd.Flags().StringVarP(&stateExportOut, "out", "o", "", "Write the export to a file instead of stdout")

	_ = stateCmd.MarkPersistentFlagRequired("state")

	stateCmd.AddCommand(stateShowCmd)
	stateCmd.AddCommand(stateClearCmd)
	stateCmd.AddCommand(stateExportCmd)
	stateCmd.AddCommand(stateImportCmd)
	rootCmd.AddCommand(stateCmd)
}

func runStateShow(_ *cobra.Command, _ []string) error {
	cache, err := loadCache(stateFile)
	if err != nil {
		return err
	}

	jobs := cache.Jobs()
	if len(jobs) == 0 {
		fmt.Println("No analyzed jobs in state.")
		return nil
	}

	active := cache.ActiveID()
	for hash, a := range jobs {
		marker := " "
		if hash == active {
			marker = "*"
		}
		fmt.Printf("%s %s  lang=%s  coverage=%.1f%%  keywords=%d  role=%s\n",
			marker, hash, a.Lang, a.Coverage, len(a.Keywords), a.RoleHint)
	}
	return nil
}

func runStateClear(_ *cobra.Command, _ []string) error {
	cache, err := loadCache(stateFile)
	if err != nil {
		return err
	}

	cache.Reset(stateKeepHistory)
	if err := saveCache(stateFile, cache); err != nil {
		return err
	}

	if stateKeepHistory {
		fmt.Println("Cleared active selection; job history kept.")
	} else {
		fmt.Println("Cleared analysis state.")
	}
	return nil
}

func runStateExport(_ *cobra.Command, _ []string) error {
	cache, err := loadCache(stateFile)
	if err != nil {
		return err
	}

	data, err := analysis.ExportState(cache)
	if err != nil {
		return fmt.Errorf("failed to export state: %w", err)
	}

	if stateExportOut == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(stateExportOut, data, 0o644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	fmt.Printf("State exported to %s\n", stateExportOut)
	return nil
}

func runStateImport(_ *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read import file: %w", err)
	}

	cache := analysis.NewCache()
	if err := analysis.ImportState(cache, data); err != nil {
		return fmt.Errorf("failed to import state: %w", err)
	}

	if err := saveCache(stateFile, cache); err != nil {
		return err
	}
	fmt.Printf("Imported %d analyzed jobs.\n", len(cache.Jobs()))
	return nil
}
