package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mpopescu/atsmatch/internal/analysis"
	"github.com/mpopescu/atsmatch/internal/cv"
	"github.com/mpopescu/atsmatch/internal/observability"
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Merge missing keywords from the active analysis into a CV",
	Long:  "Take the missing keywords of the active analysis in the state file and append them to the CV snapshot's extra-keywords section. The merge is idempotent and deduplicates case-insensitively.",
	RunE:  runApply,
}

var (
	applyCV      string
	applyState   string
	applyOut     string
	applyLimit   int
	applyVerbose bool
)

func init() {
	applyCmd.Flags().StringVar(&applyCV, "cv", "", "Path to CV snapshot JSON (required)")
	applyCmd.Flags().StringVar(&applyState, "state", "", "State file holding the active analysis (required)")
	applyCmd.Flags().StringVarP(&applyOut, "out", "o", "", "Output path for the updated snapshot (default: overwrite --cv)")
	applyCmd.Flags().IntVar(&applyLimit, "limit", 0, "Maximum keywords to merge (0 = all missing)")
	applyCmd.Flags().BoolVarP(&applyVerbose, "verbose", "v", false, "Print a formatted summary")

	_ = applyCmd.MarkFlagRequired("cv")
	_ = applyCmd.MarkFlagRequired("state")

	rootCmd.AddCommand(applyCmd)
}

func runApply(_ *cobra.Command, _ []string) error {
	if applyLimit < 0 {
		return fmt.Errorf("--limit must be non-negative")
	}

	snap, err := loadSnapshot(applyCV)
	if err != nil {
		return err
	}
	cache, err := loadCache(applyState)
	if err != nil {
		return err
	}
	active, ok := cache.Active()
	if !ok {
		return fmt.Errorf("state file has no active analysis; run analyze first")
	}

	before := make(map[string]struct{})
	for _, k := range cv.SplitExtraKeywords(snap.ExtraKeywords) {
		before[strings.ToLower(k)] = struct{}{}
	}

	updated := analysis.ApplyMissing(snap, active, applyLimit)

	out := applyOut
	if out == "" {
		out = applyCV
	}
	if err := saveSnapshot(out, updated); err != nil {
		return err
	}

	after := cv.SplitExtraKeywords(updated.ExtraKeywords)
	var added []string
	for _, k := range after {
		if _, ok := before[strings.ToLower(k)]; !ok {
			added = append(added, k)
		}
	}

	if applyVerbose {
		observability.NewPrinter(os.Stdout).PrintApplied(added, len(after))
	} else {
		fmt.Printf("Merged %d keywords into %s (%d total)\n", len(added), out, len(after))
	}
	return nil
}
