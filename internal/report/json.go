package report

import (
	"bytes"
	"encoding/json"
	"io"
)

// DefaultIndent is the indentation used for pretty-printed JSON.
const DefaultIndent = "    "

// JSONWriter outputs the result object as JSON.
//
// Design decision: Only the selector map is written, not the Report
// wrapper. The JSON report is the program's machine-readable output and its
// shape is a flat object of selector to boolean; paths and counts belong to
// the Markdown and text formats.
type JSONWriter struct {
	baseWriter

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation for each nesting level.
	// An empty string produces compact output.
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent sets the line prefix and per-level indentation.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithCompact disables pretty-printing.
func WithCompact() JSONWriterOption {
	return WithIndent("", "")
}

// NewJSONWriter creates a JSONWriter that pretty-prints with four spaces.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter:   newBaseWriter(output),
		indentString: DefaultIndent,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs report.Result followed by a newline.
func (w *JSONWriter) Write(report *Report) (int, error) {
	return w.writeJSON(report.Result)
}

// writeJSON encodes v without HTML escaping so selectors such as "ul > li"
// are printed as written.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if w.indentPrefix != "" || w.indentString != "" {
		enc.SetIndent(w.indentPrefix, w.indentString)
	}

	if err := enc.Encode(v); err != nil {
		return 0, err
	}

	return w.output.Write(buf.Bytes())
}
