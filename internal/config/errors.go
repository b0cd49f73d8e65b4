package config

import "errors"

// Configuration validation errors.
// These errors are returned by the Validate methods so callers can use
// errors.Is for programmatic handling.
var (
	// ErrEmptyPath is returned when the HTML or checks path is blank.
	ErrEmptyPath = errors.New("invalid path: must not be empty")

	// ErrInvalidFormat is returned when the report format is not supported.
	ErrInvalidFormat = errors.New("invalid format: must be json, markdown or text")

	// ErrInvalidConcurrency is returned when the concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidPort is returned when the listening port is outside 1-65535.
	ErrInvalidPort = errors.New("invalid port: must be between 1 and 65535")

	// ErrEmptyIndexFile is returned when the server has no page to serve at "/".
	ErrEmptyIndexFile = errors.New("invalid index file: must not be empty")
)
