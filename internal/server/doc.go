// Package server implements the static page server.
//
// GET / returns the configured index file, read from disk on every
// request. Every other path is looked up under the static directory and
// answered with 404 when no file matches. Handlers keep no state between
// requests.
package server
