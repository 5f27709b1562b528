// Package config manages bibtidy configuration and filesystem paths.
//
// The default root is ~/.bibtidy/, holding config.yaml and a tables/
// directory with the default abbreviation table. The root can be moved with
// the BIBTIDY_ROOT environment variable.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultTableName is the file name of the abbreviation table.
const DefaultTableName = "journal_list.txt"

// Paths contains all the filesystem paths used by bibtidy.
type Paths struct {
	// Root is the base directory for all bibtidy data (default: ~/.bibtidy)
	Root string

	// Tables is the directory holding abbreviation tables
	Tables string

	// Config is the path to the settings file
	Config string
}

// DefaultPaths returns the default paths for bibtidy.
// Paths can be overridden with environment variables:
// - BIBTIDY_ROOT: Override the root directory
func DefaultPaths() (*Paths, error) {
	root := os.Getenv("BIBTIDY_ROOT")
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		root = filepath.Join(home, ".bibtidy")
	}
	return PathsFor(root), nil
}

// PathsFor lays out the paths under root.
func PathsFor(root string) *Paths {
	return &Paths{
		Root:   root,
		Tables: filepath.Join(root, "tables"),
		Config: filepath.Join(root, "config.yaml"),
	}
}

// DefaultTable returns the table bibtidy uses when none is configured:
// journal_list.txt in the working directory if present, otherwise the one
// under Tables.
func (p *Paths) DefaultTable() string {
	if info, err := os.Stat(DefaultTableName); err == nil && !info.IsDir() {
		if abs, err := filepath.Abs(DefaultTableName); err == nil {
			return abs
		}
		return DefaultTableName
	}
	return filepath.Join(p.Tables, DefaultTableName)
}

// EnsureDirectories creates all necessary directories if they don't exist.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.Root, p.Tables} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
