// Package main provides the entry point for htmlgrade-web.
//
// htmlgrade-web serves an HTML page at "/" and static assets from a
// directory, so the page graded by htmlgrade can be viewed in a browser.
//
// Usage:
//
//	PORT=8080 htmlgrade-web --index index.html --static public
//
// See --help for all available options.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
