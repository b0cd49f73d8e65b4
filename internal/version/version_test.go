package version

import (
	"bytes"
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	t.Parallel()

	info := Get()
	if info.Version == "" {
		t.Error("expected non-empty version")
	}
	if info.Commit == "" {
		t.Error("expected non-empty commit")
	}
	if info.Date == "" {
		t.Error("expected non-empty date")
	}
}

func TestWithPlaceholders(t *testing.T) {
	t.Parallel()

	got := Info{Commit: "abc1234"}.withPlaceholders()
	want := Info{Version: "(devel)", Commit: "abc1234", Date: "unknown"}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestShortRevision(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"abc", "abc"},
		{"0123456789abcdef", "0123456"},
	}
	for _, tt := range tests {
		if got := shortRevision(tt.in); got != tt.want {
			t.Errorf("shortRevision(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFprint(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	Info{Version: "v1.2.3", Commit: "abc1234", Date: "2025-01-01"}.Fprint(&buf, "htmlgrade")

	out := buf.String()
	for _, want := range []string{"htmlgrade version v1.2.3", "commit: abc1234", "built:  2025-01-01"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	}
}
