// Package config provides configuration loading and validation for the viewer.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Environment variables read by FromEnv.
const (
	EnvBaseURL         = "REPORT_VIEWER_BASE_URL"
	EnvPort            = "REPORT_VIEWER_PORT"
	EnvTargetSubstring = "REPORT_VIEWER_TARGET"
	EnvLogLevel        = "REPORT_VIEWER_LOG_LEVEL"
	EnvTimeout         = "REPORT_VIEWER_TIMEOUT"
)

// Config represents the viewer configuration that can be loaded from a JSON or YAML file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Location of the reports: an http(s) base URL or a local directory.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" validate:"required"`

	// Document paths relative to BaseURL
	IndexPath           string `json:"index_path,omitempty" yaml:"index_path,omitempty"`
	SiteDictionaryPath  string `json:"site_dictionary_path,omitempty" yaml:"site_dictionary_path,omitempty"`
	ResumeQuestionsPath string `json:"resume_questions_path,omitempty" yaml:"resume_questions_path,omitempty"`
	GeoReportPath       string `json:"geo_report_path,omitempty" yaml:"geo_report_path,omitempty"`

	// Server
	Port  int  `json:"port,omitempty" yaml:"port,omitempty" validate:"gte=0,lte=65535"`
	Watch bool `json:"watch,omitempty" yaml:"watch,omitempty"` // Reset caches when a local report directory changes

	// Dashboard
	TargetSubstring string `json:"target_substring,omitempty" yaml:"target_substring,omitempty"` // Substring flagged in keyword hits and responses
	RecencyWindow   string `json:"recency_window,omitempty" yaml:"recency_window,omitempty"`     // Go duration, e.g. "72h"
	RecencyLimit    int    `json:"recency_limit,omitempty" yaml:"recency_limit,omitempty" validate:"gte=0,lte=3"`

	// Behavior
	Timeout  string `json:"timeout,omitempty" yaml:"timeout,omitempty"` // Go duration for document reads
	LogLevel string `json:"log_level,omitempty" yaml:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error"`
	Verbose  bool   `json:"verbose,omitempty" yaml:"verbose,omitempty"` // Development logging
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		BaseURL:       ".",
		Port:          8080,
		RecencyWindow: "72h",
		RecencyLimit:  3,
		Timeout:       "15s",
		LogLevel:      "info",
	}
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
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

// FromEnv reads the REPORT_VIEWER_* environment variables. Unset variables leave
// fields empty so they can be merged with other sources.
func FromEnv() (Config, error) {
	cfg := Config{
		BaseURL:         os.Getenv(EnvBaseURL),
		TargetSubstring: os.Getenv(EnvTargetSubstring),
		LogLevel:        os.Getenv(EnvLogLevel),
		Timeout:         os.Getenv(EnvTimeout),
	}
	if port := os.Getenv(EnvPort); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return Config{}, fmt.Errorf("config error: %s must be an integer: %w", EnvPort, err)
		}
		cfg.Port = p
	}
	return cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if _, err := c.Window(); err != nil {
		return err
	}
	if _, err := c.RequestTimeout(); err != nil {
		return err
	}
	return nil
}

// Window returns the parsed recency window.
func (c *Config) Window() (time.Duration, error) {
	return parseDuration("recency_window", c.RecencyWindow)
}

// RequestTimeout returns the parsed document read timeout.
func (c *Config) RequestTimeout() (time.Duration, error) {
	return parseDuration("timeout", c.Timeout)
}

func parseDuration(field, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("config error: '%s' is not a duration: %w", field, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("config error: '%s' must be non-negative", field)
	}
	return d, nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to layer flags over environment over file over built-in defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.BaseURL == "" {
		result.BaseURL = defaults.BaseURL
	}
	if result.IndexPath == "" {
		result.IndexPath = defaults.IndexPath
	}
	if result.SiteDictionaryPath == "" {
		result.SiteDictionaryPath = defaults.SiteDictionaryPath
	}
	if result.ResumeQuestionsPath == "" {
		result.ResumeQuestionsPath = defaults.ResumeQuestionsPath
	}
	if result.GeoReportPath == "" {
		result.GeoReportPath = defaults.GeoReportPath
	}
	if result.TargetSubstring == "" {
		result.TargetSubstring = defaults.TargetSubstring
	}
	if result.RecencyWindow == "" {
		result.RecencyWindow = defaults.RecencyWindow
	}
	if result.Timeout == "" {
		result.Timeout = defaults.Timeout
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}

	// Int fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.RecencyLimit == 0 {
		result.RecencyLimit = defaults.RecencyLimit
	}

	// Bool fields: a true anywhere wins
	result.Watch = result.Watch || defaults.Watch
	result.Verbose = result.Verbose || defaults.Verbose

	return result
}

// Resolve layers the sources: explicit values over the environment over the
// optional config file over Defaults, then validates the result.
func Resolve(explicit Config, path string) (*Config, error) {
	env, err := FromEnv()
	if err != nil {
		return nil, err
	}

	base := Defaults()
	if path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		base = fileCfg.MergeWithDefaults(base)
	}

	merged := env.MergeWithDefaults(base)
	merged = explicit.MergeWithDefaults(merged)
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}
