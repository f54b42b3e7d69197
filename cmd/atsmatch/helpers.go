package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mpopescu/atsmatch/internal/analysis"
	"github.com/mpopescu/atsmatch/internal/config"
	"github.com/mpopescu/atsmatch/internal/cv"
	"github.com/mpopescu/atsmatch/internal/ingestion"
)

// loadSnapshot reads a CV snapshot from a JSON file.
func loadSnapshot(path string) (*cv.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read CV snapshot %s: %w", path, err)
	}
	var snap cv.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse CV snapshot %s: %w", path, err)
	}
	return &snap, nil
}

// saveSnapshot writes a CV snapshot as indented JSON.
func saveSnapshot(path string, snap *cv.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode CV snapshot: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write CV snapshot %s: %w", path, err)
	}
	return nil
}

// loadCache restores an analysis cache from a state file. A missing file
// yields an empty cache so first runs need no setup.
func loadCache(path string) (*analysis.Cache, error) {
	cache := analysis.NewCache()
	if path == "" {
		return cache, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cache, nil
		}
		return nil, fmt.Errorf("failed to read state file %s: %w", path, err)
	}
	if err := analysis.ImportState(cache, data); err != nil {
		return nil, fmt.Errorf("failed to restore state from %s: %w", path, err)
	}
	return cache, nil
}

// saveCache persists an analysis cache to a state file.
func saveCache(path string, cache *analysis.Cache) error {
	if path == "" {
		return nil
	}
	data, err := analysis.ExportState(cache)
	if err != nil {
		return fmt.Errorf("failed to export state: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write state file %s: %w", path, err)
	}
	return nil
}

// resolveJobText loads the job description from a file, a URL, or stdin
// when filePath is "-". Exactly one source must be set.
func resolveJobText(ctx context.Context, filePath, urlStr string) (string, error) {
	if filePath == "" && urlStr == "" {
		return "", fmt.Errorf("either --job or --job-url must be provided")
	}
	if filePath != "" && urlStr != "" {
		return "", fmt.Errorf("--job and --job-url are mutually exclusive; provide only one")
	}

	if urlStr != "" {
		res, err := ingestion.FromURL(ctx, urlStr, nil)
		if err != nil {
			return "", fmt.Errorf("failed to ingest from URL: %w", err)
		}
		return res.Text, nil
	}
	if filePath == "-" {
		return ingestion.FromReader(os.Stdin)
	}
	return ingestion.FromFile(filePath)
}

// mergedConfig combines a config file (if given), environment overrides and
// built-in defaults.
func mergedConfig(configPath string) (config.Config, error) {
	cfg := config.Config{}
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return cfg, err
		}
		cfg = *loaded
	}
	cfg = cfg.MergeWithDefaults(config.DefaultConfig())
	cfg.FromEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// printJSON writes a value as indented JSON to stdout.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
