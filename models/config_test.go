package models

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv(EnvBaseURL, "")
	t.Setenv(EnvOutputDir, "")
	t.Setenv(EnvRequestTimeout, "")
	t.Setenv(EnvDBPath, "")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.BaseURL != DefaultBaseURL || cfg.OutputDir != DefaultOutputDir || cfg.Workers != DefaultWorkers {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.Timeout() != 0 {
		t.Errorf("Timeout() = %v, want 0 (no timeout)", cfg.Timeout())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docmark.yaml")
	data := []byte("base_url: http://files.local/api\noutput_dir: out\nrequest_timeout: 90s\nworkers: 8\n")
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvBaseURL, "http://env.local/api")
	t.Setenv(EnvOutputDir, "")
	t.Setenv(EnvRequestTimeout, "")
	t.Setenv(EnvDBPath, "")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.BaseURL != "http://env.local/api" {
		t.Errorf("BaseURL = %q, want env override", cfg.BaseURL)
	}
	if cfg.OutputDir != "out" || cfg.Workers != 8 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Timeout() != 90*time.Second {
		t.Errorf("Timeout() = %v, want 90s", cfg.Timeout())
	}
}

func TestLoadConfig_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docmark.yaml")
	if err := os.WriteFile(path, []byte("base_url: [unclosed"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig() error = nil, want parse error")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{BaseURL: DefaultBaseURL, Workers: 1}, false},
		{"with timeout", Config{BaseURL: DefaultBaseURL, RequestTimeout: "2m", Workers: 1}, false},
		{"empty base url", Config{Workers: 1}, true},
		{"relative base url", Config{BaseURL: "/api", Workers: 1}, true},
		{"bad timeout", Config{BaseURL: DefaultBaseURL, RequestTimeout: "soon", Workers: 1}, true},
		{"negative timeout", Config{BaseURL: DefaultBaseURL, RequestTimeout: "-1s", Workers: 1}, true},
		{"no workers", Config{BaseURL: DefaultBaseURL}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
