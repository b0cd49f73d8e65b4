package grader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// utf8BOM is stripped from checks files saved by editors that add one.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// errNotArray is wrapped in a ParseError when the JSON is valid but is not an array.
var errNotArray = errors.New("expected a JSON array of selector strings")

// LoadChecks reads the checks file at path.
// The file must contain a JSON array of strings, e.g. ["h1", ".navigation"].
func LoadChecks(path string) ([]string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided checks path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &MissingFileError{Path: path}
		}
		return nil, fmt.Errorf("failed to read checks %s: %w", path, err)
	}

	checks, err := ParseChecks(data)
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			perr.Path = path
		}
		return nil, err
	}
	return checks, nil
}

// ParseChecks decodes a JSON array of selector strings.
// The order of the returned slice matches the input.
func ParseChecks(data []byte) ([]string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	var checks []string
	if err := json.Unmarshal(data, &checks); err != nil {
		return nil, &ParseError{Err: err}
	}
	// "null" decodes without error but is not an array.
	if checks == nil {
		return nil, &ParseError{Err: errNotArray}
	}
	return checks, nil
}
