// Package version reports build information for the htmlgrade binaries.
//
// Values injected with -ldflags take priority over the module build info
// embedded by the Go toolchain.
package version

import (
	"fmt"
	"io"
	"runtime/debug"
)

// Set at build time via ldflags, e.g.
// -X github.com/nao1215/htmlgrade/internal/version.Version=v1.0.0
var (
	Version = ""
	Commit  = ""
	Date    = ""
)

// Info is the resolved build information.
type Info struct {
	Version string
	Commit  string
	Date    string
}

// Get resolves build information.
// Priority: ldflags > debug.ReadBuildInfo > placeholder.
func Get() Info {
	info := Info{Version: Version, Commit: Commit, Date: Date}

	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return info.withPlaceholders()
	}

	if info.Version == "" && buildInfo.Main.Version != "" {
		info.Version = buildInfo.Main.Version
	}
	for _, setting := range buildInfo.Settings {
		switch setting.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = shortRevision(setting.Value)
			}
		case "vcs.time":
			if info.Date == "" {
				info.Date = setting.Value
			}
		}
	}
	return info.withPlaceholders()
}

// Fprint writes the version block for the named program.
func (i Info) Fprint(w io.Writer, program string) {
	fmt.Fprintf(w, "%s version %s\n", program, i.Version)
	fmt.Fprintf(w, "  commit: %s\n", i.Commit)
	fmt.Fprintf(w, "  built:  %s\n", i.Date)
}

func (i Info) withPlaceholders() Info {
	if i.Version == "" {
		i.Version = "(devel)"
	}
	if i.Commit == "" {
		i.Commit = "unknown"
	}
	if i.Date == "" {
		i.Date = "unknown"
	}
	return i
}

func shortRevision(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}
