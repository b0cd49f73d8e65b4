package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/nao1215/htmlgrade/internal/config"
	"github.com/nao1215/htmlgrade/internal/database"
	"github.com/nao1215/htmlgrade/internal/pipeline"
	"github.com/nao1215/htmlgrade/internal/report"
	"github.com/nao1215/markdown"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved grading runs",
		Long: `History lists grading runs saved with --save (or history.enabled in the
configuration file), newest first.

Examples:
  # List every saved run
  htmlgrade history

  # Only runs for one document
  htmlgrade history --file index.html

  # Print the stored result of run 3
  htmlgrade history show 3`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().StringP("file", "f", "", "Only list runs for this HTML file")
	cmd.Flags().IntP("limit", "n", 20, "Maximum number of runs to list (0 for all)")
	cmd.Flags().BoolP("markdown", "m", false, "Output a Markdown table")

	cmd.AddCommand(newHistoryShowCmd())

	return cmd
}

// newHistoryShowCmd creates the "history show" command.
func newHistoryShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print the stored result of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistoryShowCmd,
	}
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	file, err := cmd.Flags().GetString("file")
	if err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	asMarkdown, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}

	db, err := openHistory(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if db == nil {
		fmt.Fprintln(out, "No grading history found.")
		fmt.Fprintln(out, "\nUse 'htmlgrade --save' to record a run.")
		return nil
	}
	defer db.Close()

	if file != "" {
		file = pipeline.AbsPath(file)
	}
	runs, err := db.ListRuns(cmd.Context(), file, limit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "No grading history found.")
		return nil
	}

	if asMarkdown {
		return writeHistoryMarkdown(out, runs)
	}
	writeHistoryText(out, runs)
	return nil
}

// runHistoryShowCmd executes the "history show" command.
func runHistoryShowCmd(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid run id %q: %w", args[0], err)
	}

	db, err := openHistory(cmd)
	if err != nil {
		return err
	}
	if db == nil {
		return fmt.Errorf("run %d not found: no grading history", id)
	}
	defer db.Close()

	run, err := db.GetRun(cmd.Context(), id)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("run %d not found", id)
	}

	_, err = report.NewJSONWriter(cmd.OutOrStdout()).Write(&report.Report{
		HTMLFile:   run.HTMLFile,
		ChecksFile: run.ChecksFile,
		Result:     run.Result,
	})
	return err
}

// openHistory opens the history database without creating it.
// It returns nil, nil when no database exists yet.
func openHistory(cmd *cobra.Command) (*database.HistoryDB, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	file, err := config.Resolve(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
	}

	cfg := config.NewConfig()
	cfg.ApplyFile(file)

	if _, err := os.Stat(filepath.Join(cfg.DBDir, database.FileName)); os.IsNotExist(err) {
		return nil, nil
	}

	db, err := database.Open(cfg.DBDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// writeHistoryText prints runs as an aligned table.
func writeHistoryText(out io.Writer, runs []database.RunMetadata) {
	fmt.Fprintf(out, "  %-6s  %-20s  %-8s  %s\n", "ID", "Date", "Present", "HTML File")
	for _, run := range runs {
		fmt.Fprintf(out, "  %-6d  %-20s  %-8s  %s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%d/%d", run.Passed, run.Total),
			run.HTMLFile,
		)
	}
	fmt.Fprintln(out, "\nUse 'htmlgrade history show <id>' to print a stored result.")
}

// writeHistoryMarkdown prints runs as a Markdown table.
func writeHistoryMarkdown(out io.Writer, runs []database.RunMetadata) error {
	rows := make([][]string, len(runs))
	for i, run := range runs {
		rows[i] = []string{
			strconv.FormatInt(run.ID, 10),
			run.Timestamp.Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%d/%d", run.Passed, run.Total),
			"`" + run.HTMLFile + "`",
			"`" + shortDigest(run.DocDigest) + "`",
		}
	}

	md := markdown.NewMarkdown(out)
	md.H2("Grading History")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"ID", "Date", "Present", "HTML File", "Digest"},
		Rows:   rows,
	})
	return md.Build()
}

// shortDigest trims a hex digest for display.
func shortDigest(digest string) string {
	if len(digest) > 12 {
		return digest[:12]
	}
	return digest
}
