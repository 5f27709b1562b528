// Package engine provides the orchestration layer between the CLI and the
// text transformations.
//
// A run reads one reference file, optionally resolves url/doi conflicts,
// optionally abbreviates journal names with a cached lookup table, writes the
// result next to the input under a prefixed name and reports a change log.
//
// Key components:
//   - Engine: holds the injected filesystem, hasher, clock, table loader and logger
//   - Process: one end-to-end run over a reference file
//   - Table: access to the cached abbreviation table for inspection commands
package engine

import (
	"go.uber.org/zap"

	"github.com/danieljhkim/bibtidy/internal/abbrev"
	"github.com/danieljhkim/bibtidy/internal/clock"
	"github.com/danieljhkim/bibtidy/internal/config"
	"github.com/danieljhkim/bibtidy/internal/fsops"
	"github.com/danieljhkim/bibtidy/internal/hash"
)

// Engine orchestrates all bibtidy operations.
// It is the main API surface called by the CLI.
type Engine struct {
	fs       fsops.FS
	hasher   hash.Hasher
	clock    clock.Clock
	loader   *abbrev.Loader
	settings config.Settings
	logger   *zap.Logger
}

// New creates a new Engine with the given dependencies.
func New(
	fs fsops.FS,
	hasher hash.Hasher,
	clk clock.Clock,
	loader *abbrev.Loader,
	settings config.Settings,
	logger *zap.Logger,
) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loader == nil {
		loader = abbrev.NewLoader(logger)
	}
	return &Engine{
		fs:       fs,
		hasher:   hasher,
		clock:    clk,
		loader:   loader,
		settings: settings,
		logger:   logger,
	}
}

// Settings returns the settings the engine was built with.
func (e *Engine) Settings() config.Settings {
	return e.settings
}
