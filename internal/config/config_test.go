package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestNewConfig verifies that NewConfig returns the documented defaults.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default HTMLFile is index.html", func(t *testing.T) {
		t.Parallel()
		if cfg.HTMLFile != "index.html" {
			t.Errorf("expected HTMLFile to be 'index.html', got '%s'", cfg.HTMLFile)
		}
	})

	t.Run("default ChecksFile is checks.json", func(t *testing.T) {
		t.Parallel()
		if cfg.ChecksFile != "checks.json" {
			t.Errorf("expected ChecksFile to be 'checks.json', got '%s'", cfg.ChecksFile)
		}
	})

	t.Run("default Format is json", func(t *testing.T) {
		t.Parallel()
		if cfg.Format != "json" {
			t.Errorf("expected Format to be 'json', got '%s'", cfg.Format)
		}
	})

	t.Run("default Concurrency is 4", func(t *testing.T) {
		t.Parallel()
		if cfg.Concurrency != 4 {
			t.Errorf("expected Concurrency to be 4, got %d", cfg.Concurrency)
		}
	})

	t.Run("history is off and points at XDG data dir", func(t *testing.T) {
		t.Parallel()
		if cfg.SaveHistory {
			t.Error("expected SaveHistory to be false")
		}
		if cfg.DBDir != XDGDataDir() {
			t.Errorf("expected DBDir %q, got %q", XDGDataDir(), cfg.DBDir)
		}
	})
}

// TestConfigValidate tests the Validate method with various configurations.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{name: "defaults are valid", modify: func(*Config) {}},
		{name: "markdown is valid", modify: func(c *Config) { c.Format = "markdown" }},
		{name: "text is valid", modify: func(c *Config) { c.Format = "text" }},
		{name: "empty html path", modify: func(c *Config) { c.HTMLFile = "" }, wantErr: ErrEmptyPath},
		{name: "empty checks path", modify: func(c *Config) { c.ChecksFile = "" }, wantErr: ErrEmptyPath},
		{name: "unknown format", modify: func(c *Config) { c.Format = "yaml" }, wantErr: ErrInvalidFormat},
		{name: "zero concurrency", modify: func(c *Config) { c.Concurrency = 0 }, wantErr: ErrInvalidConcurrency},
		{name: "negative concurrency", modify: func(c *Config) { c.Concurrency = -2 }, wantErr: ErrInvalidConcurrency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := NewConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestConfigApplyFile tests merging config file values.
func TestConfigApplyFile(t *testing.T) {
	t.Parallel()

	t.Run("nil file is ignored", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		cfg.ApplyFile(nil)
		if cfg.HTMLFile != DefaultHTMLFile {
			t.Error("expected defaults to be kept")
		}
	})

	t.Run("non-zero values override", func(t *testing.T) {
		t.Parallel()
		cfg := NewConfig()
		cfg.ApplyFile(&File{
			Grade: GradeSection{
				File:        "site/index.html",
				Format:      "markdown",
				Lenient:     true,
				Concurrency: 8,
			},
			History: HistorySection{Enabled: true, Dir: "/tmp/history"},
		})

		if cfg.HTMLFile != "site/index.html" {
			t.Errorf("unexpected HTMLFile %q", cfg.HTMLFile)
		}
		if cfg.ChecksFile != DefaultChecksFile {
			t.Errorf("expected ChecksFile to keep default, got %q", cfg.ChecksFile)
		}
		if cfg.Format != "markdown" || !cfg.Lenient || cfg.Concurrency != 8 {
			t.Errorf("unexpected grade settings %+v", cfg)
		}
		if !cfg.SaveHistory || cfg.DBDir != "/tmp/history" {
			t.Errorf("unexpected history settings %+v", cfg)
		}
	})
}

// TestServerConfig tests the server configuration.
func TestServerConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		cfg := NewServerConfig()
		if cfg.Port != 5000 {
			t.Errorf("expected port 5000, got %d", cfg.Port)
		}
		if cfg.IndexFile != "index.html" || cfg.StaticDir != "public" {
			t.Errorf("unexpected defaults %+v", cfg)
		}
		if cfg.Addr() != ":5000" {
			t.Errorf("expected :5000, got %s", cfg.Addr())
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected valid defaults, got %v", err)
		}
	})

	t.Run("env overrides port", func(t *testing.T) {
		t.Parallel()
		cfg := NewServerConfig()
		lookup := func(key string) (string, bool) {
			if key == PortEnv {
				return "8080", true
			}
			return "", false
		}
		if err := cfg.ApplyEnv(lookup); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Port != 8080 {
			t.Errorf("expected 8080, got %d", cfg.Port)
		}
	})

	t.Run("empty env is ignored", func(t *testing.T) {
		t.Parallel()
		cfg := NewServerConfig()
		if err := cfg.ApplyEnv(func(string) (string, bool) { return "", true }); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Port != DefaultPort {
			t.Errorf("expected default port, got %d", cfg.Port)
		}
	})

	t.Run("non numeric env is rejected", func(t *testing.T) {
		t.Parallel()
		cfg := NewServerConfig()
		err := cfg.ApplyEnv(func(string) (string, bool) { return "http", true })
		if !errors.Is(err, ErrInvalidPort) {
			t.Errorf("expected ErrInvalidPort, got %v", err)
		}
	})

	t.Run("file values apply", func(t *testing.T) {
		t.Parallel()
		cfg := NewServerConfig()
		cfg.ApplyFile(&File{Serve: ServeSection{Port: 3000, Static: "assets"}})
		if cfg.Port != 3000 || cfg.StaticDir != "assets" || cfg.IndexFile != DefaultIndexFile {
			t.Errorf("unexpected config %+v", cfg)
		}
	})

	t.Run("invalid values", func(t *testing.T) {
		t.Parallel()
		for _, port := range []int{0, -1, 65536} {
			cfg := NewServerConfig()
			cfg.Port = port
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidPort) {
				t.Errorf("port %d: expected ErrInvalidPort, got %v", port, err)
			}
		}
		cfg := NewServerConfig()
		cfg.IndexFile = ""
		if err := cfg.Validate(); !errors.Is(err, ErrEmptyIndexFile) {
			t.Errorf("expected ErrEmptyIndexFile, got %v", err)
		}
	})
}

// TestLoadConfigFile tests YAML loading.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("loads all sections", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), ".htmlgrade")
		content := `grade:
  file: site.html
  checks: site-checks.json
  format: text
  lenient: true
  concurrency: 2
serve:
  port: 8000
  index: home.html
  static: www
history:
  enabled: true
  dir: /var/lib/htmlgrade
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cf.Grade.File != "site.html" || cf.Grade.Checks != "site-checks.json" ||
			cf.Grade.Format != "text" || !cf.Grade.Lenient || cf.Grade.Concurrency != 2 {
			t.Errorf("unexpected grade section %+v", cf.Grade)
		}
		if cf.Serve.Port != 8000 || cf.Serve.Index != "home.html" || cf.Serve.Static != "www" {
			t.Errorf("unexpected serve section %+v", cf.Serve)
		}
		if !cf.History.Enabled || cf.History.Dir != "/var/lib/htmlgrade" {
			t.Errorf("unexpected history section %+v", cf.History)
		}
	})

	t.Run("missing file returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()
		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("invalid yaml returns error", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), ".htmlgrade")
		if err := os.WriteFile(path, []byte("grade: [unclosed"), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected error for invalid yaml")
		}
	})

	t.Run("empty file is valid", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), ".htmlgrade")
		if err := os.WriteFile(path, nil, 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cf.Grade.File != "" {
			t.Error("expected zero values")
		}
	})
}

// TestFindConfigFile tests explicit path resolution.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit existing path", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(path, []byte("grade: {}\n"), 0600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}
		if got := FindConfigFile(path); got != path {
			t.Errorf("expected %q, got %q", path, got)
		}
	})

	t.Run("explicit missing path", func(t *testing.T) {
		t.Parallel()
		if got := FindConfigFile(filepath.Join(t.TempDir(), "missing.yaml")); got != "" {
			t.Errorf("expected empty result, got %q", got)
		}
	})

	t.Run("resolve with explicit missing path fails", func(t *testing.T) {
		t.Parallel()
		_, err := Resolve(filepath.Join(t.TempDir(), "missing.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})
}

// TestXDGDirs tests XDG directory helpers.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	if !strings.HasSuffix(XDGDataDir(), AppName) {
		t.Errorf("expected data dir to end with %q, got %q", AppName, XDGDataDir())
	}
	if !strings.HasSuffix(XDGConfigDir(), AppName) {
		t.Errorf("expected config dir to end with %q, got %q", AppName, XDGConfigDir())
	}
}
