// Package report renders grading results.
//
// This package contains writers for different output formats:
//   - JSONWriter: the selector to boolean object, pretty-printed
//   - MarkdownWriter: a table with a pass/fail summary
//   - SimpleWriter: one line per selector for terminal display
//
// Writers implement the Writer interface and are chosen by format name with
// NewWriter.
package report
