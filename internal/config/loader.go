package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".htmlgrade"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .htmlgrade configuration file.
type File struct {
	// Grade holds defaults for the selector checker.
	Grade GradeSection `yaml:"grade,omitempty"`

	// Serve holds defaults for the static page server.
	Serve ServeSection `yaml:"serve,omitempty"`

	// History controls the grading history database.
	History HistorySection `yaml:"history,omitempty"`
}

// GradeSection configures the selector checker.
type GradeSection struct {
	File        string `yaml:"file,omitempty"`
	Checks      string `yaml:"checks,omitempty"`
	Format      string `yaml:"format,omitempty"`
	Lenient     bool   `yaml:"lenient,omitempty"`
	Concurrency int    `yaml:"concurrency,omitempty"`
}

// ServeSection configures the static page server.
type ServeSection struct {
	Port   int    `yaml:"port,omitempty"`
	Index  string `yaml:"index,omitempty"`
	Static string `yaml:"static,omitempty"`
}

// HistorySection configures the history database.
type HistorySection struct {
	// Enabled saves every grading run.
	Enabled bool `yaml:"enabled,omitempty"`

	// Dir overrides the XDG data directory.
	Dir string `yaml:"dir,omitempty"`
}

// LoadConfigFile loads a YAML configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}

	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .htmlgrade in the current directory
// 3. Look for config.yaml in the XDG config directory
// 4. Look for .htmlgrade in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	candidates := make([]string, 0, 3)
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), "config.yaml"))
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}

	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}

	return ""
}

// Resolve finds and loads the configuration file.
// An explicit path that does not exist is an error; when no path is given
// and nothing is found, an empty File is returned.
func Resolve(configPath string) (*File, error) {
	path := FindConfigFile(configPath)
	if path == "" {
		if configPath != "" {
			return nil, ErrConfigNotFound
		}
		return &File{}, nil
	}
	return LoadConfigFile(path)
}
