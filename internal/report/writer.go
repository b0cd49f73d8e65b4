package report

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/nao1215/htmlgrade/internal/grader"
)

// Supported output formats.
const (
	// FormatJSON prints the result object only. This is the default.
	FormatJSON = "json"

	// FormatMarkdown prints a GitHub flavored Markdown report.
	FormatMarkdown = "markdown"

	// FormatText prints one line per selector.
	FormatText = "text"
)

// ErrUnknownFormat is returned by NewWriter for an unsupported format name.
var ErrUnknownFormat = errors.New("unknown report format")

// Formats lists the accepted format names.
func Formats() []string {
	return []string{FormatJSON, FormatMarkdown, FormatText}
}

// IsValidFormat reports whether name is one of Formats.
func IsValidFormat(name string) bool {
	return slices.Contains(Formats(), name)
}

// Report is a grading result together with the inputs that produced it.
type Report struct {
	// HTMLFile is the path of the graded document.
	HTMLFile string

	// ChecksFile is the path of the checks list.
	ChecksFile string

	// Result holds the selector presence flags.
	Result *grader.Result
}

// Writer defines the interface for report output.
type Writer interface {
	// Write outputs the report and returns the number of bytes written.
	Write(report *Report) (int, error)
}

// NewWriter returns the Writer for format, writing to output.
func NewWriter(format string, output io.Writer) (Writer, error) {
	switch format {
	case FormatJSON, "":
		return NewJSONWriter(output), nil
	case FormatMarkdown:
		return NewMarkdownWriter(output), nil
	case FormatText:
		return NewSimpleWriter(output), nil
	default:
		return nil, fmt.Errorf("%w: %q (expected one of %v)", ErrUnknownFormat, format, Formats())
	}
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
