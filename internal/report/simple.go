package report

import (
	"fmt"
	"io"
	"strings"
)

// SimpleWriter outputs one line per selector for terminal display.
type SimpleWriter struct {
	baseWriter
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer) *SimpleWriter {
	return &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report as plain text.
func (w *SimpleWriter) Write(report *Report) (int, error) {
	var sb strings.Builder
	result := report.Result

	fmt.Fprintf(&sb, "%s against %s\n", report.HTMLFile, report.ChecksFile)
	sb.WriteString(strings.Repeat("-", 40))
	sb.WriteString("\n")

	invalid := make(map[string]bool)
	for _, sel := range result.Invalid() {
		invalid[sel] = true
	}

	for _, key := range result.Keys() {
		present, _ := result.Get(key)
		mark := "[ ]"
		if present {
			mark = "[x]"
		}
		if invalid[key] {
			mark = "[!]"
		}
		fmt.Fprintf(&sb, "%s %s\n", mark, key)
	}

	sb.WriteString(strings.Repeat("-", 40))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "%d/%d present\n", result.Passed(), result.Len())

	return io.WriteString(w.output, sb.String())
}
