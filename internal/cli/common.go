package cli

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/danieljhkim/bibtidy/internal/abbrev"
	"github.com/danieljhkim/bibtidy/internal/clock"
	"github.com/danieljhkim/bibtidy/internal/config"
	"github.com/danieljhkim/bibtidy/internal/engine"
	"github.com/danieljhkim/bibtidy/internal/fsops"
	"github.com/danieljhkim/bibtidy/internal/hash"
	"github.com/danieljhkim/bibtidy/internal/logging"
)

// loadSettings resolves paths and settings for the current invocation.
func loadSettings() (*config.Paths, config.Settings, error) {
	paths, err := config.DefaultPaths()
	if err != nil {
		return nil, config.Settings{}, fmt.Errorf("failed to get config paths: %w", err)
	}
	settings, err := config.LoadSettings(paths)
	if err != nil {
		return nil, config.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	return paths, settings, nil
}

// newLogger builds the logger for settings, honoring --verbose.
func newLogger(settings config.Settings) *zap.Logger {
	level := settings.LogLevel
	if verbose {
		level = "debug"
	}
	return logging.NewWithWriter(stderr, level, settings.LogFormat)
}

// newEngine creates a new engine with real implementations of all dependencies.
// The table loader lives as long as the engine, so every file processed by one
// command reuses the same loaded table.
func newEngine() (*engine.Engine, error) {
	_, settings, err := loadSettings()
	if err != nil {
		return nil, err
	}

	logger := newLogger(settings)
	return engine.New(
		fsops.NewRealFS(),
		hash.NewSHA256Hasher(),
		&clock.RealClock{},
		abbrev.NewLoader(logger),
		settings,
		logger,
	), nil
}

// outputJSON writes a value as indented JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
