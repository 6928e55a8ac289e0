package common

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dtnitsch/docmark/models"
	"github.com/dtnitsch/docmark/pkg/db"
	"github.com/dtnitsch/docmark/pkg/selector"
	"github.com/dtnitsch/docmark/pkg/transport"
	"github.com/urfave/cli/v2"
)

// Exit codes shared by every command.
const (
	ExitFailed = 1 // the attempt ended with an error status
	ExitSetup  = 2 // configuration or environment problem before any attempt
)

// NewLogger builds the JSON stderr logger used by all commands.
func NewLogger(c *cli.Context) *slog.Logger {
	logLevel := slog.LevelInfo
	if c.Bool("verbose") {
		logLevel = slog.LevelDebug
	}
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// LoadConfig reads the config file and applies global flag overrides.
func LoadConfig(c *cli.Context) (*models.Config, error) {
	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("base-url") {
		cfg.BaseURL = c.String("base-url")
	}
	if c.IsSet("output-dir") {
		cfg.OutputDir = c.String("output-dir")
	}
	if c.IsSet("timeout") {
		cfg.RequestTimeout = c.String("timeout")
	}
	if c.IsSet("db") {
		cfg.DBPath = c.String("db")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// NewClient builds the transport client for cfg.
func NewClient(cfg *models.Config, logger *slog.Logger) *transport.Client {
	var opts []transport.Option
	if d := cfg.Timeout(); d > 0 {
		opts = append(opts, transport.WithTimeout(d))
	}
	return transport.NewClient(cfg.BaseURL, logger, opts...)
}

// OpenPreferences opens the preference database and returns a store for
// workflow. When the database cannot be opened the selection simply is not
// remembered; the returned store is nil and close is a no-op.
func OpenPreferences(cfg *models.Config, workflow string, logger *slog.Logger) (store selector.Store, closeFn func()) {
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("preferences unavailable", "error", err)
		return nil, func() {}
	}
	return database.Preferences(workflow), func() { _ = database.Close() }
}

// Setup is the shared preamble of the submission commands.
func Setup(c *cli.Context) (*models.Config, *slog.Logger, error) {
	logger := NewLogger(c)
	cfg, err := LoadConfig(c)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return nil, nil, cli.Exit(err.Error(), ExitSetup)
	}
	return cfg, logger, nil
}
