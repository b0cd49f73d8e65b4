// Package database stores grading runs in SQLite.
//
// Each run records the graded paths, a SHA3-256 digest of the document and
// the result object, so later runs against the same page can be listed and
// compared. The driver is modernc.org/sqlite, which needs no cgo.
package database
