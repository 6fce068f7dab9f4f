// =============================================================================
// Disperse Validator - Configuration Module
// =============================================================================
//
// This module loads the application configuration from a YAML file.
//
// CONFIGURATION FILE (config.yaml):
//   input_dir:          ./input           # batch mode: lists to process
//   output_dir:         ./output          # resolved lists and error logs
//   input_archive_dir:  ./input_archive   # processed inputs are moved here
//   output_archive_dir: ./output_archive  # resolved lists are copied here
//   output_format:      text              # text | csv | xlsx
//   file_name_format:   "{original}_{uuid}"
//   default_strategy:   ""                # keep | combine | "" (leave pending)
//   max_concurrency:    4
//   continue_on_error:  true
//   log_level:          info
//   log_format:         console
//   address_length:     42
//   address_prefix:     "0x"
//
// A missing file is not an error: every field has a default. Flag and
// environment overrides are layered on top by the cmd package.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/disperse-validator/internal/types"
	"github.com/ginjaninja78/disperse-validator/internal/validation"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the global application configuration.
type Config struct {
	// =========================================================================
	// DIRECTORY SETTINGS
	// =========================================================================

	// InputDir is scanned by the process command.
	// Default: "./input"
	InputDir string `yaml:"input_dir"`

	// OutputDir receives resolved lists and error logs.
	// Default: "./output"
	OutputDir string `yaml:"output_dir"`

	// InputArchiveDir receives inputs after successful processing.
	// Default: "./input_archive"
	InputArchiveDir string `yaml:"input_archive_dir"`

	// OutputArchiveDir receives a copy of every written output.
	// Default: "./output_archive"
	OutputArchiveDir string `yaml:"output_archive_dir"`

	// UseTimestampSubdirs files archives under YYYY/MM/DD subdirectories.
	// Default: false
	UseTimestampSubdirs bool `yaml:"use_timestamp_subdirs"`

	// =========================================================================
	// LOGGING SETTINGS
	// =========================================================================

	// LogLevel is one of debug, info, warn, error.
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// LogFormat is console or json.
	// Default: "console"
	LogFormat string `yaml:"log_format"`

	// =========================================================================
	// OUTPUT SETTINGS
	// =========================================================================

	// OutputFormat selects the writer: text, csv or xlsx.
	// Default: "text"
	OutputFormat string `yaml:"output_format"`

	// FileNameFormat names output files. Placeholders:
	//   {uuid}      - A random UUID
	//   {timestamp} - Current timestamp (YYYYMMDD_HHMMSS)
	//   {original}  - Input file name without extension
	// The extension of the output format is appended.
	// Default: "{original}_{uuid}"
	FileNameFormat string `yaml:"file_name_format"`

	// =========================================================================
	// PROCESSING SETTINGS
	// =========================================================================

	// DefaultStrategy resolves duplicates in batch mode. Empty leaves lists
	// with duplicates unprocessed.
	DefaultStrategy string `yaml:"default_strategy"`

	// MaxConcurrency is the maximum number of files processed at once.
	// Default: 4
	MaxConcurrency int `yaml:"max_concurrency"`

	// ContinueOnError keeps processing other files when one fails.
	// Default: true
	ContinueOnError *bool `yaml:"continue_on_error"`

	// =========================================================================
	// VALIDATION SETTINGS
	// =========================================================================

	// AddressLength is the exact identifier length.
	// Default: 42
	AddressLength int `yaml:"address_length"`

	// AddressPrefix is the required identifier prefix.
	// Default: "0x"
	AddressPrefix string `yaml:"address_prefix"`
}

var validFormats = map[string]bool{"text": true, "csv": true, "xlsx": true}

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Load reads the configuration from a YAML file.
//
// PARAMETERS:
//   - path: The path to the configuration file. An empty path or a missing
//     file yields the defaults.
//
// RETURNS:
//   - The loaded configuration.
//   - An error if the file cannot be read, parsed, or fails validation.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// Defaults only.
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(cfg *Config) {
	if cfg.InputDir == "" {
		cfg.InputDir = "./input"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "./output"
	}
	if cfg.InputArchiveDir == "" {
		cfg.InputArchiveDir = "./input_archive"
	}
	if cfg.OutputArchiveDir == "" {
		cfg.OutputArchiveDir = "./output_archive"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "console"
	}
	if cfg.OutputFormat == "" {
		cfg.OutputFormat = "text"
	}
	if cfg.FileNameFormat == "" {
		cfg.FileNameFormat = "{original}_{uuid}"
	}
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 4
	}
	if cfg.ContinueOnError == nil {
		enabled := true
		cfg.ContinueOnError = &enabled
	}
	if cfg.AddressLength <= 0 {
		cfg.AddressLength = validation.DefaultAddressLength
	}
	if cfg.AddressPrefix == "" {
		cfg.AddressPrefix = validation.DefaultAddressPrefix
	}
}

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	c.OutputFormat = strings.ToLower(c.OutputFormat)
	if !validFormats[c.OutputFormat] {
		return fmt.Errorf("output_format %q is not one of text, csv, xlsx", c.OutputFormat)
	}

	c.LogLevel = strings.ToLower(c.LogLevel)
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("log_level %q is not one of debug, info, warn, error", c.LogLevel)
	}

	if c.DefaultStrategy != "" {
		if _, err := types.ParseStrategy(c.DefaultStrategy); err != nil {
			return fmt.Errorf("default_strategy: %w", err)
		}
	}

	return nil
}

// Strategy returns the configured default strategy, or false if none is set.
func (c *Config) Strategy() (types.ResolutionStrategy, bool) {
	if c.DefaultStrategy == "" {
		return types.KeepFirst, false
	}
	s, err := types.ParseStrategy(c.DefaultStrategy)
	if err != nil {
		return types.KeepFirst, false
	}
	return s, true
}

// ValidationOptions returns the address rules as validation options.
func (c *Config) ValidationOptions() validation.Options {
	return validation.Options{
		AddressLength: c.AddressLength,
		AddressPrefix: c.AddressPrefix,
	}
}

// ShouldContinueOnError reports the effective continue_on_error value.
func (c *Config) ShouldContinueOnError() bool {
	return c.ContinueOnError == nil || *c.ContinueOnError
}

// EnsureDirectories creates the configured directories if needed.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.InputDir,
		c.OutputDir,
		c.InputArchiveDir,
		c.OutputArchiveDir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
