// Package models defines the shared data structures for configuration,
// workflow selections and request outcomes.
package models

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigFile = "docmark.yaml"
	DefaultBaseURL    = "http://127.0.0.1:8000/api"
	DefaultOutputDir  = "."
	DefaultWorkers    = 4

	EnvBaseURL        = "DOCMARK_BASE_URL"
	EnvOutputDir      = "DOCMARK_OUTPUT_DIR"
	EnvRequestTimeout = "DOCMARK_REQUEST_TIMEOUT"
	EnvDBPath         = "DOCMARK_DB_PATH"
)

// Config holds client settings. Values come from the optional YAML file,
// then environment variables, then CLI flags (applied by the caller).
type Config struct {
	BaseURL        string `yaml:"base_url"`
	OutputDir      string `yaml:"output_dir"`
	RequestTimeout string `yaml:"request_timeout"`
	DBPath         string `yaml:"db_path"`
	Workers        int    `yaml:"workers"`
}

// LoadConfig reads the YAML config at path. A missing file is not an error;
// defaults and environment variables then provide every value.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.loadDefaults()
	cfg.loadEnv()
	return cfg, nil
}

func (c *Config) loadDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.OutputDir == "" {
		c.OutputDir = DefaultOutputDir
	}
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv(EnvRequestTimeout); v != "" {
		c.RequestTimeout = v
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		c.DBPath = v
	}
}

// Timeout returns the request timeout. Zero means requests may block
// indefinitely.
func (c *Config) Timeout() time.Duration {
	if c.RequestTimeout == "" {
		return 0
	}
	d, _ := time.ParseDuration(c.RequestTimeout)
	return d
}

// Validate checks the values that cannot be defaulted.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid base_url %q", c.BaseURL)
	}
	if c.RequestTimeout != "" {
		d, err := time.ParseDuration(c.RequestTimeout)
		if err != nil {
			return fmt.Errorf("invalid request_timeout: %w", err)
		}
		if d < 0 {
			return fmt.Errorf("request_timeout must not be negative")
		}
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive")
	}
	return nil
}
