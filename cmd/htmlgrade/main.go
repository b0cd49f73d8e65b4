// Package main provides the entry point for the htmlgrade CLI.
//
// htmlgrade checks an HTML file for the presence of CSS selectors listed in
// a JSON file and prints a JSON object mapping each selector to true or
// false.
//
// Usage:
//
//	htmlgrade --file index.html --checks checks.json
//
// See --help for all available options.
package main

// main is the entry point for htmlgrade.
func main() {
	Execute()
}
