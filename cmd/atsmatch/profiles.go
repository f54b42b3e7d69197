package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mpopescu/atsmatch/internal/lang"
	"github.com/mpopescu/atsmatch/internal/observability"
	"github.com/mpopescu/atsmatch/internal/profiles"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Inspect ATS profiles",
}

var profilesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available ATS profiles",
	RunE:  runProfilesList,
}

var profilesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one merged ATS profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfilesShow,
}

var (
	profilesDir     string
	profilesLang    string
	profilesAsJSON  bool
	profilesConfigP string
)

func init() {
	profilesCmd.PersistentFlags().StringVar(&profilesDir, "profiles-dir", "", "Root of the profiles/libraries tree")
	profilesCmd.PersistentFlags().StringVar(&profilesLang, "lang", "en", "Locale for bilingual profile values: en or ro")
	profilesCmd.PersistentFlags().BoolVar(&profilesAsJSON, "json", false, "Print raw JSON instead of a formatted box")
	profilesCmd.PersistentFlags().StringVar(&profilesConfigP, "config", "", "Path to JSON config file")

	profilesCmd.AddCommand(profilesListCmd)
	profilesCmd.AddCommand(profilesShowCmd)
	rootCmd.AddCommand(profilesCmd)
}

func profilesLoader() (*profiles.Loader, error) {
	cfg, err := mergedConfig(profilesConfigP)
	if err != nil {
		return nil, err
	}
	dir := profilesDir
	if dir == "" {
		dir = cfg.ProfilesDir
	}
	return profiles.NewLoader(dir), nil
}

func runProfilesList(_ *cobra.Command, _ []string) error {
	loader, err := profilesLoader()
	if err != nil {
		return err
	}

	summaries, err := loader.List(lang.Parse(profilesLang))
	if err != nil {
		return fmt.Errorf("failed to list profiles: %w", err)
	}

	if profilesAsJSON {
		return printJSON(summaries)
	}
	observability.NewPrinter(os.Stdout).PrintProfileList(summaries)
	return nil
}

func runProfilesShow(_ *cobra.Command, args []string) error {
	loader, err := profilesLoader()
	if err != nil {
		return err
	}

	profile, err := loader.Load(args[0], lang.Parse(profilesLang))
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}

	if profilesAsJSON {
		return printJSON(profile)
	}
	observability.NewPrinter(os.Stdout).PrintProfile(profile)
	return nil
}
