package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/danieljhkim/bibtidy/internal/fsops"
)

// DefaultOutputPrefix is prepended to the input file name to form the output
// file name.
const DefaultOutputPrefix = "processed_"

// Settings are the user-tunable options. Values come from defaults, then
// config.yaml, then environment variables (a .env file in the working
// directory is loaded first).
type Settings struct {
	TablePath      string `yaml:"table" json:"table"`
	OutputPrefix   string `yaml:"output_prefix" json:"output_prefix"`
	Abbreviate     bool   `yaml:"abbreviate" json:"abbreviate"`
	CleanConflicts bool   `yaml:"clean_doi" json:"clean_doi"`
	LogLevel       string `yaml:"log_level" json:"log_level"`
	LogFormat      string `yaml:"log_format" json:"log_format"`
}

// DefaultSettings returns the built-in settings for paths.
func DefaultSettings(paths *Paths) Settings {
	return Settings{
		TablePath:      paths.DefaultTable(),
		OutputPrefix:   DefaultOutputPrefix,
		Abbreviate:     true,
		CleanConflicts: true,
		LogLevel:       "warn",
		LogFormat:      "console",
	}
}

// LoadSettings resolves settings for paths.
func LoadSettings(paths *Paths) (Settings, error) {
	_ = godotenv.Load()

	s := DefaultSettings(paths)

	data, err := os.ReadFile(paths.Config)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &s); err != nil {
			return Settings{}, fmt.Errorf("failed to parse %s: %w", paths.Config, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return Settings{}, fmt.Errorf("failed to read %s: %w", paths.Config, err)
	}

	s.TablePath = getEnv("BIBTIDY_TABLE", s.TablePath)
	s.OutputPrefix = getEnv("BIBTIDY_OUTPUT_PREFIX", s.OutputPrefix)
	s.Abbreviate = getEnvBool("BIBTIDY_ABBREVIATE", s.Abbreviate)
	s.CleanConflicts = getEnvBool("BIBTIDY_CLEAN_DOI", s.CleanConflicts)
	s.LogLevel = getEnv("BIBTIDY_LOG_LEVEL", s.LogLevel)
	s.LogFormat = getEnv("BIBTIDY_LOG_FORMAT", s.LogFormat)

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks settings that would otherwise fail late.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.TablePath) == "" {
		return fmt.Errorf("table path must not be empty")
	}
	if s.OutputPrefix != "" {
		if err := fsops.ValidateFileName(s.OutputPrefix); err != nil {
			return fmt.Errorf("invalid output prefix: %w", err)
		}
	}
	switch strings.ToLower(s.LogFormat) {
	case "", "console", "json":
	default:
		return fmt.Errorf("unsupported log format %q (want console or json)", s.LogFormat)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	switch value {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}
