// Package pipeline runs a grading run as a sequence of steps.
//
// A run loads the document and the checks, evaluates the selectors, writes
// the report and optionally records the run in the history database. Each
// stage is a Step that reads and fills in the shared State.
package pipeline
