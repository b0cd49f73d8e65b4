package grader

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks. The concrete error types below wrap
// one of these.
var (
	// ErrMissingFile is returned when an input path does not name an existing file.
	ErrMissingFile = errors.New("file does not exist")

	// ErrParse is returned when the checks file is not a JSON array of strings.
	ErrParse = errors.New("invalid checks file")

	// ErrSelectorSyntax is returned when a check is not a valid CSS selector.
	ErrSelectorSyntax = errors.New("invalid selector")
)

// MissingFileError reports an input path that could not be used.
type MissingFileError struct {
	// Path is the path exactly as the user supplied it.
	Path string
}

// Error returns the diagnostic printed by the CLI before it exits.
func (e *MissingFileError) Error() string {
	return fmt.Sprintf("%s does not exist. Exiting.", e.Path)
}

// Unwrap lets errors.Is match ErrMissingFile.
func (e *MissingFileError) Unwrap() error {
	return ErrMissingFile
}

// ParseError reports a checks file that could not be decoded.
type ParseError struct {
	// Path is the checks file path. Empty when parsing from memory.
	Path string

	// Err is the underlying decoder error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", ErrParse, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", ErrParse, e.Path, e.Err)
}

// Unwrap returns both the sentinel and the decoder error.
func (e *ParseError) Unwrap() []error {
	return []error{ErrParse, e.Err}
}

// SelectorSyntaxError reports a check that cascadia could not compile.
type SelectorSyntaxError struct {
	// Selector is the offending check string.
	Selector string

	// Err is the compiler error.
	Err error
}

// Error implements the error interface.
func (e *SelectorSyntaxError) Error() string {
	return fmt.Sprintf("%s %q: %v", ErrSelectorSyntax, e.Selector, e.Err)
}

// Unwrap returns both the sentinel and the compiler error.
func (e *SelectorSyntaxError) Unwrap() []error {
	return []error{ErrSelectorSyntax, e.Err}
}
