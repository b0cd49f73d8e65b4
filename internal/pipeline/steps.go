package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/nao1215/htmlgrade/internal/database"
	"github.com/nao1215/htmlgrade/internal/grader"
	"github.com/nao1215/htmlgrade/internal/report"
)

// Errors returned when a step runs before the state it depends on exists.
var (
	ErrNoDocument = errors.New("no document loaded")
	ErrNoResult   = errors.New("no result evaluated")
)

// LoadDocumentStep parses State.HTMLFile into State.Document.
type LoadDocumentStep struct {
	logger *slog.Logger
}

// NewLoadDocumentStep creates a LoadDocumentStep.
func NewLoadDocumentStep(logger *slog.Logger) *LoadDocumentStep {
	return &LoadDocumentStep{logger: orDefault(logger)}
}

// Name implements Step.
func (s *LoadDocumentStep) Name() string { return "load-document" }

// Do implements Step.
func (s *LoadDocumentStep) Do(_ context.Context, state *State) error {
	doc, err := grader.LoadDocument(state.HTMLFile)
	if err != nil {
		return err
	}
	state.Document = doc

	s.logger.Debug("document loaded",
		"path", state.HTMLFile,
		"bytes", doc.Size(),
		"digest", doc.Digest(),
	)
	return nil
}

// LoadChecksStep parses State.ChecksFile into State.Checks.
type LoadChecksStep struct {
	logger *slog.Logger
}

// NewLoadChecksStep creates a LoadChecksStep.
func NewLoadChecksStep(logger *slog.Logger) *LoadChecksStep {
	return &LoadChecksStep{logger: orDefault(logger)}
}

// Name implements Step.
func (s *LoadChecksStep) Name() string { return "load-checks" }

// Do implements Step.
func (s *LoadChecksStep) Do(_ context.Context, state *State) error {
	checks, err := grader.LoadChecks(state.ChecksFile)
	if err != nil {
		return err
	}
	state.Checks = checks

	s.logger.Debug("checks loaded", "path", state.ChecksFile, "count", len(checks))
	return nil
}

// EvaluateStep matches State.Checks against State.Document.
type EvaluateStep struct {
	opts   []grader.Option
	logger *slog.Logger
}

// NewEvaluateStep creates an EvaluateStep passing opts to grader.Evaluate.
func NewEvaluateStep(logger *slog.Logger, opts ...grader.Option) *EvaluateStep {
	return &EvaluateStep{opts: opts, logger: orDefault(logger)}
}

// Name implements Step.
func (s *EvaluateStep) Name() string { return "evaluate" }

// Do implements Step.
func (s *EvaluateStep) Do(ctx context.Context, state *State) error {
	if state.Document == nil {
		return ErrNoDocument
	}

	result, err := grader.Evaluate(ctx, state.Document, state.Checks, s.opts...)
	if err != nil {
		return err
	}
	state.Result = result

	for _, sel := range result.Invalid() {
		s.logger.Warn("invalid selector recorded as missing", "selector", sel)
	}
	s.logger.Info("grading complete",
		"passed", result.Passed(),
		"total", result.Len(),
	)
	return nil
}

// ReportStep hands the finished report to a write function.
type ReportStep struct {
	write func(*report.Report) error
}

// NewReportStep creates a ReportStep. write decides where the report goes.
func NewReportStep(write func(*report.Report) error) *ReportStep {
	return &ReportStep{write: write}
}

// Name implements Step.
func (s *ReportStep) Name() string { return "report" }

// Do implements Step.
func (s *ReportStep) Do(_ context.Context, state *State) error {
	if state.Result == nil {
		return ErrNoResult
	}
	return s.write(&report.Report{
		HTMLFile:   state.HTMLFile,
		ChecksFile: state.ChecksFile,
		Result:     state.Result,
	})
}

// SaveHistoryStep stores the run in the history database under dbDir.
// Paths are recorded in absolute form so runs started from different
// working directories line up.
type SaveHistoryStep struct {
	dbDir  string
	logger *slog.Logger
}

// NewSaveHistoryStep creates a SaveHistoryStep.
func NewSaveHistoryStep(dbDir string, logger *slog.Logger) *SaveHistoryStep {
	return &SaveHistoryStep{dbDir: dbDir, logger: orDefault(logger)}
}

// Name implements Step.
func (s *SaveHistoryStep) Name() string { return "save-history" }

// Do implements Step.
func (s *SaveHistoryStep) Do(ctx context.Context, state *State) error {
	if state.Document == nil {
		return ErrNoDocument
	}
	if state.Result == nil {
		return ErrNoResult
	}

	db, err := database.Open(s.dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	id, err := db.SaveRun(ctx, &database.Run{
		RunMetadata: database.RunMetadata{
			HTMLFile:   AbsPath(state.HTMLFile),
			ChecksFile: AbsPath(state.ChecksFile),
			DocDigest:  state.Document.Digest(),
		},
		Result: state.Result,
	})
	if err != nil {
		return err
	}
	state.RunID = id

	s.logger.Info("run saved", "id", id, "db", db.Path())
	return nil
}

// AbsPath returns an absolute form of path, or path itself on failure.
func AbsPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

func orDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
