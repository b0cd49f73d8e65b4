package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// MarkdownWriter outputs reports in Markdown format.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *Report) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSummary(md, report)
	w.writeChecks(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the title and input table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *Report) {
	md.H1("HTML Grade Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"HTML File", "`" + report.HTMLFile + "`"},
			{"Checks File", "`" + report.ChecksFile + "`"},
			{"Checks", strconv.Itoa(report.Result.Len())},
		},
	})
	md.PlainText("")
}

// writeSummary writes pass/fail counts, a pie chart and an alert.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *Report) {
	result := report.Result

	md.H2("Summary")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Status", "Count"},
		Rows: [][]string{
			{"✅ Present", strconv.Itoa(result.Passed())},
			{"❌ Missing", strconv.Itoa(result.Failed())},
			{"**Total**", "**" + strconv.Itoa(result.Len()) + "**"},
		},
	})
	md.PlainText("")

	if result.Len() > 0 {
		chart := piechart.NewPieChart(
			io.Discard,
			piechart.WithTitle("Selector Presence"),
			piechart.WithShowData(true),
		)
		if n := result.Passed(); n > 0 {
			chart.LabelAndIntValue("Present", uint64(n))
		}
		if n := result.Failed(); n > 0 {
			chart.LabelAndIntValue("Missing", uint64(n))
		}
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
		md.PlainText("")
	}

	switch {
	case len(result.Invalid()) > 0:
		md.Cautionf("%d selector(s) could not be parsed and were counted as missing.", len(result.Invalid()))
	case result.Len() == 0:
		md.Note("The checks list is empty.")
	case result.Failed() > 0:
		md.Warningf("%d of %d selector(s) are missing from the document.", result.Failed(), result.Len())
	default:
		md.Tip("Every selector is present in the document.")
	}
	md.PlainText("")
}

// writeChecks writes one table row per selector.
func (w *MarkdownWriter) writeChecks(md *markdown.Markdown, report *Report) {
	md.H2("Checks")
	md.PlainText("")

	keys := report.Result.Keys()
	if len(keys) == 0 {
		md.PlainText("No checks were evaluated.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(keys))
	for i, key := range keys {
		present, _ := report.Result.Get(key)
		rows[i] = []string{"`" + key + "`", presenceLabel(present)}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Selector", "Present"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [htmlgrade](https://github.com/nao1215/htmlgrade)*")
}

// presenceLabel renders a presence flag for tables.
func presenceLabel(present bool) string {
	if present {
		return "✅ yes"
	}
	return "❌ no"
}
