package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mpopescu/atsmatch/internal/analysis"
	"github.com/mpopescu/atsmatch/internal/cv"
	"github.com/mpopescu/atsmatch/internal/lang"
	"github.com/mpopescu/atsmatch/internal/observability"
	"github.com/mpopescu/atsmatch/internal/profiles"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a job description against a CV snapshot",
	Long:  "Extract keywords from a job description, score them against a CV snapshot, and report present and missing keywords with a coverage percentage. Results are cached per job hash in the state file.",
	RunE:  runAnalyze,
}

var (
	analyzeJob      string
	analyzeJobURL   string
	analyzeCV       string
	analyzeLang     string
	analyzeProfile  string
	analyzeRoleHint string
	analyzeState    string
	analyzeConfig   string
	analyzeVerbose  bool
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeJob, "job", "j", "", "Path to job description text file (use - for stdin)")
	analyzeCmd.Flags().StringVarP(&analyzeJobURL, "job-url", "u", "", "URL to fetch the job posting from")
	analyzeCmd.Flags().StringVar(&analyzeCV, "cv", "", "Path to CV snapshot JSON")
	analyzeCmd.Flags().StringVar(&analyzeLang, "lang", "", "Force language: en or ro (default: auto-detect)")
	analyzeCmd.Flags().StringVar(&analyzeProfile, "profile", "", "ATS profile id supplying role-hint job titles")
	analyzeCmd.Flags().StringVar(&analyzeRoleHint, "role-hint", "", "Explicit role label stored on the result")
	analyzeCmd.Flags().StringVar(&analyzeState, "state", "", "State file for cached analyses")
	analyzeCmd.Flags().StringVar(&analyzeConfig, "config", "", "Path to JSON config file")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Print a formatted summary instead of raw JSON")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	cfg, err := mergedConfig(analyzeConfig)
	if err != nil {
		return err
	}
	if analyzeJob == "" {
		analyzeJob = cfg.Job
	}
	if analyzeJobURL == "" {
		analyzeJobURL = cfg.JobURL
	}
	if analyzeCV == "" {
		analyzeCV = cfg.CV
	}
	if analyzeLang == "" {
		analyzeLang = cfg.Language
	}
	if analyzeProfile == "" {
		analyzeProfile = cfg.Profile
	}
	if analyzeState == "" {
		analyzeState = cfg.StateFile
	}

	jobText, err := resolveJobText(cmd.Context(), analyzeJob, analyzeJobURL)
	if err != nil {
		return err
	}

	opts := analysis.Options{RoleHint: analyzeRoleHint}
	if analyzeLang != "" {
		opts.LangHint = lang.Parse(analyzeLang)
	}

	locale := opts.LangHint
	if locale == "" {
		locale = lang.Detect(jobText)
	}
	if analyzeProfile != "" {
		profile, err := profiles.NewLoader(cfg.ProfilesDir).Load(analyzeProfile, locale)
		if err != nil {
			return fmt.Errorf("failed to load profile: %w", err)
		}
		opts.JobTitles = profile.JobTitles
	}

	var snap *cv.Snapshot
	if analyzeCV != "" {
		snap, err = loadSnapshot(analyzeCV)
		if err != nil {
			return err
		}
	}

	cache, err := loadCache(analyzeState)
	if err != nil {
		return err
	}

	result := analysis.NewAnalyzer(cfg.MaxKeywords).Analyze(cache, snap, jobText, opts)

	if err := saveCache(analyzeState, cache); err != nil {
		return err
	}

	if analyzeVerbose {
		observability.NewPrinter(os.Stdout).PrintAnalysis(&result)
		return nil
	}
	return printJSON(result)
}
