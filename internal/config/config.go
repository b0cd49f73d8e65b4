package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/nao1215/htmlgrade/internal/report"
)

// Default configuration values.
const (
	// DefaultHTMLFile is the document graded when --file is not given.
	DefaultHTMLFile = "index.html"

	// DefaultChecksFile is the checks list used when --checks is not given.
	DefaultChecksFile = "checks.json"

	// DefaultFormat is the report format written to stdout.
	DefaultFormat = report.FormatJSON

	// DefaultConcurrency is the number of selectors evaluated at once.
	DefaultConcurrency = 4

	// AppName is the application name used for XDG directory paths.
	AppName = "htmlgrade"
)

// Config holds the options of a single grading run.
// It is populated from defaults, the config file and CLI flags, in that
// order, and passed down explicitly.
type Config struct {
	// HTMLFile is the path of the document to grade.
	HTMLFile string

	// ChecksFile is the path of the JSON array of selectors.
	ChecksFile string

	// Format is the report format: json, markdown or text.
	Format string

	// OutputFile receives the report instead of stdout when set.
	// Parent directories are created as needed.
	OutputFile string

	// Lenient isolates invalid selectors instead of failing the run.
	Lenient bool

	// Concurrency bounds parallel selector evaluation.
	Concurrency int

	// Verbose enables debug logging on stderr.
	Verbose bool

	// SaveHistory stores each run in the history database.
	SaveHistory bool

	// DBDir is the directory holding the history database.
	// Defaults to the XDG data directory (~/.local/share/htmlgrade on Linux).
	DBDir string

	// ConfigFilePath is the explicit --config value, if any.
	ConfigFilePath string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		HTMLFile:    DefaultHTMLFile,
		ChecksFile:  DefaultChecksFile,
		Format:      DefaultFormat,
		Concurrency: DefaultConcurrency,
		DBDir:       XDGDataDir(),
	}
}

// ApplyFile copies the grade and history settings from f into c.
// Zero values in f leave c untouched.
func (c *Config) ApplyFile(f *File) {
	if f == nil {
		return
	}

	g := f.Grade
	if g.File != "" {
		c.HTMLFile = g.File
	}
	if g.Checks != "" {
		c.ChecksFile = g.Checks
	}
	if g.Format != "" {
		c.Format = g.Format
	}
	if g.Concurrency != 0 {
		c.Concurrency = g.Concurrency
	}
	if g.Lenient {
		c.Lenient = true
	}

	if f.History.Enabled {
		c.SaveHistory = true
	}
	if f.History.Dir != "" {
		c.DBDir = f.History.Dir
	}
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	if c.HTMLFile == "" || c.ChecksFile == "" {
		return ErrEmptyPath
	}

	if !report.IsValidFormat(c.Format) {
		return ErrInvalidFormat
	}

	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	return nil
}

// XDGDataDir returns the XDG data directory for htmlgrade.
// On Linux: ~/.local/share/htmlgrade
// On macOS: ~/Library/Application Support/htmlgrade
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for htmlgrade.
// On Linux: ~/.config/htmlgrade
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}
