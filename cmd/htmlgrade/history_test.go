package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewHistoryCmd(t *testing.T) {
	t.Parallel()

	cmd := NewHistoryCmd()

	if cmd.Use != "history" {
		t.Errorf("unexpected Use: got %q", cmd.Use)
	}

	flagsWithShort := map[string]string{
		"file":     "f",
		"limit":    "n",
		"markdown": "m",
	}
	for flag, shorthand := range flagsWithShort {
		f := cmd.Flags().Lookup(flag)
		if f == nil {
			t.Errorf("expected flag %q to exist", flag)
			continue
		}
		if f.Shorthand != shorthand {
			t.Errorf("flag %q: expected shorthand %q, got %q", flag, shorthand, f.Shorthand)
		}
	}

	var hasShow bool
	for _, sub := range cmd.Commands() {
		if sub.Name() == "show" {
			hasShow = true
		}
	}
	if !hasShow {
		t.Error("expected show subcommand")
	}
}

func TestHistoryWorkflow(t *testing.T) {
	t.Parallel()

	fx := newGradeFixture(t, "<h1>Hi</h1><div class=\"nav\"></div>", `["h1", ".nav", "footer"]`)
	dbDir := filepath.Join(fx.dir, "data")
	cfg := writeFixture(t, fx.dir, "history.yaml", "history:\n  dir: "+dbDir+"\n")

	t.Run("no history yet", func(t *testing.T) {
		stdout, _, err := runRoot(t, "--config", cfg, "history")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "No grading history found") {
			t.Errorf("expected empty history message, got %q", stdout)
		}
	})

	t.Run("save a run", func(t *testing.T) {
		if _, _, err := runRoot(t, "--config", cfg, "-f", fx.html, "-c", fx.checks, "--save"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("list runs", func(t *testing.T) {
		stdout, _, err := runRoot(t, "--config", cfg, "history")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "2/3") {
			t.Errorf("expected 2/3 present, got %q", stdout)
		}
		if !strings.Contains(stdout, fx.html) {
			t.Errorf("expected html path, got %q", stdout)
		}
	})

	t.Run("list runs as markdown", func(t *testing.T) {
		stdout, _, err := runRoot(t, "--config", cfg, "history", "--markdown")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "## Grading History") {
			t.Errorf("expected markdown heading, got %q", stdout)
		}
	})

	t.Run("filter by another file", func(t *testing.T) {
		stdout, _, err := runRoot(t, "--config", cfg, "history", "--file", filepath.Join(fx.dir, "other.html"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "No grading history found") {
			t.Errorf("expected no runs, got %q", stdout)
		}
	})

	t.Run("show stored result", func(t *testing.T) {
		stdout, _, err := runRoot(t, "--config", cfg, "history", "show", "1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := "{\n    \".nav\": true,\n    \"footer\": false,\n    \"h1\": true\n}\n"
		if stdout != want {
			t.Errorf("unexpected output:\ngot:\n%s\nwant:\n%s", stdout, want)
		}
	})

	t.Run("show unknown run", func(t *testing.T) {
		_, _, err := runRoot(t, "--config", cfg, "history", "show", "99")
		if err == nil {
			t.Error("expected error for unknown run")
		}
	})

	t.Run("show rejects non-numeric id", func(t *testing.T) {
		_, _, err := runRoot(t, "--config", cfg, "history", "show", "abc")
		if err == nil {
			t.Error("expected error for invalid id")
		}
	})
}

func TestShortDigest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"abc", "abc"},
		{"0123456789abcdef", "0123456789ab"},
	}
	for _, tt := range tests {
		if got := shortDigest(tt.in); got != tt.want {
			t.Errorf("shortDigest(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteHistoryTextEmptyHeader(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	writeHistoryText(&buf, nil)
	if !strings.Contains(buf.String(), "HTML File") {
		t.Errorf("expected header, got %q", buf.String())
	}
}
