// Package config provides configuration loading and validation for the CLI
// and the HTTP server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/mpopescu/atsmatch/internal/lang"
)

// Config represents settings that can be loaded from a JSON file or the
// environment. All fields are optional; missing values use defaults or must
// be provided via CLI flags.
type Config struct {
	// Paths
	Job         string `json:"job,omitempty"`          // Path to job posting text file
	JobURL      string `json:"job_url,omitempty"`      // URL to fetch job posting from
	CV          string `json:"cv,omitempty"`           // Path to CV snapshot JSON
	ProfilesDir string `json:"profiles_dir,omitempty"` // Root of the profiles/libraries tree
	StateFile   string `json:"state_file,omitempty"`   // Analysis state export path

	// Analysis
	Language    string `json:"language,omitempty"`     // Language override: "en" or "ro"
	Profile     string `json:"profile,omitempty"`      // Profile id for role hints and keyword banks
	MaxKeywords int    `json:"max_keywords,omitempty"` // Cap on extracted keywords
	ApplyLimit  int    `json:"apply_limit,omitempty"`  // Cap on keywords merged per apply

	// Server
	ServerAddr        string `json:"server_addr,omitempty"`         // Listen address for serve
	RequestsPerMinute int    `json:"requests_per_minute,omitempty"` // Per-client rate limit

	// Behavior
	Verbose bool `json:"verbose,omitempty"` // Print detailed progress information
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		ProfilesDir:       "ats_profiles",
		Language:          "",
		MaxKeywords:       80,
		ApplyLimit:        0,
		ServerAddr:        ":8080",
		RequestsPerMinute: 60,
	}
}

// LoadConfig loads configuration from a JSON file.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv overlays ATSMATCH_* environment variables onto the config.
// Environment values win over file values so deployments can override
// without editing files. Typically paired with godotenv in main.
func (c *Config) FromEnv() {
	if v := os.Getenv("ATSMATCH_PROFILES_DIR"); v != "" {
		c.ProfilesDir = v
	}
	if v := os.Getenv("ATSMATCH_LANGUAGE"); v != "" {
		c.Language = v
	}
	if v := os.Getenv("ATSMATCH_SERVER_ADDR"); v != "" {
		c.ServerAddr = v
	}
	if v := os.Getenv("ATSMATCH_MAX_KEYWORDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxKeywords = n
		}
	}
	if v := os.Getenv("ATSMATCH_REQUESTS_PER_MINUTE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RequestsPerMinute = n
		}
	}
}

// Validate checks that the configuration has valid values.
// Required fields are enforced by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.Job != "" && c.JobURL != "" {
		return fmt.Errorf("config error: 'job' and 'job_url' are mutually exclusive")
	}

	if c.MaxKeywords < 0 {
		return fmt.Errorf("config error: 'max_keywords' must be non-negative")
	}
	if c.ApplyLimit < 0 {
		return fmt.Errorf("config error: 'apply_limit' must be non-negative")
	}
	if c.RequestsPerMinute < 0 {
		return fmt.Errorf("config error: 'requests_per_minute' must be non-negative")
	}

	if c.Language != "" && c.Language != string(lang.EN) && c.Language != string(lang.RO) {
		return fmt.Errorf("config error: 'language' must be %q or %q", lang.EN, lang.RO)
	}

	if c.Job != "" {
		if _, err := os.Stat(c.Job); os.IsNotExist(err) {
			return fmt.Errorf("config error: job file not found: %s", c.Job)
		}
	}
	if c.CV != "" {
		if _, err := os.Stat(c.CV); os.IsNotExist(err) {
			return fmt.Errorf("config error: cv file not found: %s", c.CV)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with unset fields filled from
// defaults. CLI flags always win for booleans since an unset bool is
// indistinguishable from false.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Job == "" {
		result.Job = defaults.Job
	}
	if result.JobURL == "" {
		result.JobURL = defaults.JobURL
	}
	if result.CV == "" {
		result.CV = defaults.CV
	}
	if result.ProfilesDir == "" {
		result.ProfilesDir = defaults.ProfilesDir
	}
	if result.StateFile == "" {
		result.StateFile = defaults.StateFile
	}
	if result.Language == "" {
		result.Language = defaults.Language
	}
	if result.Profile == "" {
		result.Profile = defaults.Profile
	}
	if result.ServerAddr == "" {
		result.ServerAddr = defaults.ServerAddr
	}

	if result.MaxKeywords == 0 {
		result.MaxKeywords = defaults.MaxKeywords
	}
	if result.ApplyLimit == 0 {
		result.ApplyLimit = defaults.ApplyLimit
	}
	if result.RequestsPerMinute == 0 {
		result.RequestsPerMinute = defaults.RequestsPerMinute
	}

	return result
}
