// Package grader checks an HTML document for the presence of CSS selectors.
//
// A grading run has three steps:
//
//	doc, err := grader.LoadDocument("index.html")
//	checks, err := grader.LoadChecks("checks.json")
//	result, err := grader.Evaluate(ctx, doc, checks)
//
// The Document is parsed once with golang.org/x/net/html and is never
// mutated afterwards, so it can be queried from several goroutines at once.
// Selectors are compiled with github.com/andybalholm/cascadia.
//
// Result keeps its keys in sorted order. Repeated selectors collapse into a
// single key.
package grader
