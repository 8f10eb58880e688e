// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Environment variables read by ApplyEnv
const (
	EnvWorkers = "BUILDORDER_WORKERS"
	EnvSchema  = "BUILDORDER_SCHEMA"
)

// MaxWorkers bounds how many files are checked concurrently
const MaxWorkers = 64

// Config represents the CLI configuration that can be loaded from a JSON or YAML file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	Workers       int    `json:"workers,omitempty" yaml:"workers,omitempty" validate:"gte=0,lte=64"` // Files checked concurrently
	Schema        string `json:"schema,omitempty" yaml:"schema,omitempty"`                           // External structure schema file
	Verbose       bool   `json:"verbose,omitempty" yaml:"verbose,omitempty"`                         // Print run and build order details
	AllowWarnings bool   `json:"allow_warnings,omitempty" yaml:"allow_warnings,omitempty"`           // Warnings alone do not fail a file
}

// Default returns the built-in configuration: sequential checking with the embedded schema
func Default() Config {
	return Config{Workers: 1}
}

// LoadConfig loads configuration from a JSON file, or a YAML file when the
// extension is .yaml or .yml.
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
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// ApplyEnv overrides fields from BUILDORDER_* environment variables
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config error: %s must be an integer: %w", EnvWorkers, err)
		}
		c.Workers = n
	}
	if v := os.Getenv(EnvSchema); v != "" {
		c.Schema = v
	}
	return nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: 'workers' must be between 0 and %d: %w", MaxWorkers, err)
	}

	if c.Schema != "" {
		if _, err := os.Stat(c.Schema); os.IsNotExist(err) {
			return fmt.Errorf("config error: schema file not found: %s", c.Schema)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Workers == 0 {
		result.Workers = defaults.Workers
	}
	if result.Schema == "" {
		result.Schema = defaults.Schema
	}

	// Bool fields: cannot distinguish unset from false, so only a true default wins
	result.Verbose = result.Verbose || defaults.Verbose
	result.AllowWarnings = result.AllowWarnings || defaults.AllowWarnings

	return result
}
