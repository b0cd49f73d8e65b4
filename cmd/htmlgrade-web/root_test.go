package main

import (
	"bytes"
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/nao1215/htmlgrade/internal/config"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// staticLookup builds an environment lookup from a map.
func staticLookup(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	if cmd.Use != "htmlgrade-web" {
		t.Errorf("expected use 'htmlgrade-web', got %q", cmd.Use)
	}

	tests := []struct {
		name      string
		shorthand string
		def       string
	}{
		{"port", "p", "5000"},
		{"index", "", "index.html"},
		{"static", "", "public"},
		{"env-file", "", ".env"},
		{"log-json", "", "false"},
	}
	for _, tt := range tests {
		flag := cmd.Flags().Lookup(tt.name)
		if flag == nil {
			t.Errorf("expected flag %q", tt.name)
			continue
		}
		if flag.Shorthand != tt.shorthand {
			t.Errorf("flag %q: expected shorthand %q, got %q", tt.name, tt.shorthand, flag.Shorthand)
		}
		if flag.DefValue != tt.def {
			t.Errorf("flag %q: expected default %q, got %q", tt.name, tt.def, flag.DefValue)
		}
	}
}

func TestBuildServerConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := writeFile(t, dir, ".htmlgrade", "serve:\n  port: 7000\n  index: page.html\n")
	emptyCfg := writeFile(t, dir, "empty.yaml", "")

	tests := []struct {
		name     string
		args     []string
		env      map[string]string
		wantPort int
		wantErr  bool
	}{
		{
			name:     "defaults",
			args:     []string{"--config", emptyCfg},
			wantPort: config.DefaultPort,
		},
		{
			name:     "config file",
			args:     []string{"--config", cfgPath},
			wantPort: 7000,
		},
		{
			name:     "env overrides config file",
			args:     []string{"--config", cfgPath},
			env:      map[string]string{"PORT": "8080"},
			wantPort: 8080,
		},
		{
			name:     "flag overrides env",
			args:     []string{"--config", cfgPath, "-p", "9090"},
			env:      map[string]string{"PORT": "8080"},
			wantPort: 9090,
		},
		{
			name:     "empty env is ignored",
			args:     []string{"--config", emptyCfg},
			env:      map[string]string{"PORT": ""},
			wantPort: config.DefaultPort,
		},
		{
			name:    "non-numeric env",
			args:    []string{"--config", emptyCfg},
			env:     map[string]string{"PORT": "http"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cmd := NewRootCmd()
			if err := cmd.ParseFlags(tt.args); err != nil {
				t.Fatalf("failed to parse flags: %v", err)
			}

			cfg, err := buildServerConfig(cmd, staticLookup(tt.env))
			if tt.wantErr {
				if !errors.Is(err, config.ErrInvalidPort) {
					t.Errorf("expected ErrInvalidPort, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.Port != tt.wantPort {
				t.Errorf("expected port %d, got %d", tt.wantPort, cfg.Port)
			}
		})
	}
}

func TestEnvLookup(t *testing.T) {
	t.Parallel()

	t.Run("reads dotenv file", func(t *testing.T) {
		t.Parallel()
		path := writeFile(t, t.TempDir(), ".env", "HTMLGRADE_TEST_ONLY_KEY=1234\n")

		lookup, err := envLookup(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		v, ok := lookup("HTMLGRADE_TEST_ONLY_KEY")
		if !ok || v != "1234" {
			t.Errorf("expected 1234, got %q (ok=%v)", v, ok)
		}
	})

	t.Run("missing file is ignored", func(t *testing.T) {
		t.Parallel()
		lookup, err := envLookup(filepath.Join(t.TempDir(), ".env"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := lookup("HTMLGRADE_TEST_ONLY_KEY"); ok {
			t.Error("expected key to be absent")
		}
	})
}

func TestRunServeCmd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := writeFile(t, dir, ".htmlgrade", "")
	index := writeFile(t, dir, "index.html", "<h1>Hi</h1>")

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to reserve port: %v", err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	if err := ln.Close(); err != nil {
		t.Fatalf("failed to release port: %v", err)
	}

	var stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{
		"--config", cfgPath,
		"--env-file", "",
		"--index", index,
		"--static", dir,
		"-p", strconv.Itoa(port),
	})

	// A cancelled context makes the server shut down right after it starts.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := cmd.ExecuteContext(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "addr=localhost:" + strconv.Itoa(port)
	if !strings.Contains(stderr.String(), want) {
		t.Errorf("expected %q in logs, got %q", want, stderr.String())
	}
}

func TestRunServeCmdInvalidPort(t *testing.T) {
	t.Parallel()

	cfgPath := writeFile(t, t.TempDir(), ".htmlgrade", "")

	cmd := NewRootCmd()
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", cfgPath, "--env-file", "", "-p", "70000"})

	err := cmd.Execute()
	if !errors.Is(err, config.ErrInvalidPort) {
		t.Errorf("expected ErrInvalidPort, got %v", err)
	}
}
