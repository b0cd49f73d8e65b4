package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/nao1215/htmlgrade/internal/config"
	"github.com/nao1215/htmlgrade/internal/grader"
	"github.com/nao1215/htmlgrade/internal/report"
	"github.com/nao1215/htmlgrade/internal/version"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for htmlgrade.
// Running it without a subcommand grades a document.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "htmlgrade",
		Short: "Check an HTML file for required CSS selectors",
		Long: `htmlgrade loads an HTML document and a JSON array of CSS selectors ("checks")
and reports, for each selector, whether at least one element matches.

The report is a JSON object with the selectors in sorted order:

  {
      ".navigation": false,
      "h1": true
  }

Examples:
  # Grade index.html against checks.json in the current directory
  htmlgrade

  # Grade a specific page
  htmlgrade --file site/index.html --checks checks.json

  # Markdown report written to a file
  htmlgrade --format markdown -o report.md

  # Keep going when a selector is invalid
  htmlgrade --lenient`,
		Version:       version.Get().Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runGradeCmd,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().String("config", "",
		"Configuration file path (default: .htmlgrade in current or home directory)")

	// Input flags
	cmd.Flags().StringP("file", "f", config.DefaultHTMLFile, "Path to index.html")
	cmd.Flags().StringP("checks", "c", config.DefaultChecksFile, "Path to checks.json")

	// Evaluation flags
	cmd.Flags().Bool("lenient", false,
		"Record invalid selectors as false instead of failing")
	cmd.Flags().Int("concurrency", config.DefaultConcurrency,
		"Number of selectors evaluated in parallel")

	// Report flags
	cmd.Flags().String("format", config.DefaultFormat,
		fmt.Sprintf("Report format %v", report.Formats()))
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("save", false,
		"Save the result to the grading history database")

	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command and exits with status 1 on failure.
// A missing input file has already been reported on stdout by the time
// Execute sees the error.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		var missing *grader.MissingFileError
		if !errors.As(err, &missing) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
