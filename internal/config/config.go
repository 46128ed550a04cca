// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Input sources
	PhotosDir      string `json:"photos_dir,omitempty"`      // Directory of candidate photos
	FacebookExport string `json:"facebook_export,omitempty"` // Facebook data-export .zip or .json

	// Profile facts
	Age         int    `json:"age,omitempty"`
	Occupation  string `json:"occupation,omitempty"`
	Location    string `json:"location,omitempty"`
	Interests   string `json:"interests,omitempty"`   // comma-separated
	Personality string `json:"personality,omitempty"` // free text
	LookingFor  string `json:"looking_for,omitempty"` // free text
	Style       string `json:"style,omitempty"`       // description style preference

	// Limits
	MaxPhotos   int `json:"max_photos,omitempty"`  // How many photos to select
	Concurrency int `json:"concurrency,omitempty"` // Parallel photo analyses

	// Behavior
	OutputDir   string `json:"output_dir,omitempty"`   // Where exported artifacts go
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	Verbose     bool   `json:"verbose,omitempty"`      // Print detailed debug information
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
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

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.PhotosDir != "" && c.FacebookExport != "" {
		return fmt.Errorf("config error: 'photos_dir' and 'facebook_export' are mutually exclusive")
	}

	if c.MaxPhotos < 0 {
		return fmt.Errorf("config error: 'max_photos' must be non-negative")
	}
	if c.Concurrency < 0 {
		return fmt.Errorf("config error: 'concurrency' must be non-negative")
	}
	if c.Age < 0 {
		return fmt.Errorf("config error: 'age' must be non-negative")
	}

	if c.PhotosDir != "" {
		if info, err := os.Stat(c.PhotosDir); err != nil || !info.IsDir() {
			return fmt.Errorf("config error: photos directory not found: %s", c.PhotosDir)
		}
	}
	if c.FacebookExport != "" {
		if _, err := os.Stat(c.FacebookExport); os.IsNotExist(err) {
			return fmt.Errorf("config error: facebook export not found: %s", c.FacebookExport)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.PhotosDir == "" {
		result.PhotosDir = defaults.PhotosDir
	}
	if result.FacebookExport == "" {
		result.FacebookExport = defaults.FacebookExport
	}
	if result.Occupation == "" {
		result.Occupation = defaults.Occupation
	}
	if result.Location == "" {
		result.Location = defaults.Location
	}
	if result.Interests == "" {
		result.Interests = defaults.Interests
	}
	if result.Personality == "" {
		result.Personality = defaults.Personality
	}
	if result.LookingFor == "" {
		result.LookingFor = defaults.LookingFor
	}
	if result.Style == "" {
		result.Style = defaults.Style
	}
	if result.OutputDir == "" {
		result.OutputDir = defaults.OutputDir
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	// Int fields: use default if zero
	if result.Age == 0 {
		result.Age = defaults.Age
	}
	if result.MaxPhotos == 0 {
		result.MaxPhotos = defaults.MaxPhotos
	}
	if result.Concurrency == 0 {
		result.Concurrency = defaults.Concurrency
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
