package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/htmlgrade/internal/grader"
)

// State carries the inputs and outputs of one grading run between steps.
type State struct {
	// HTMLFile is the path of the document to grade.
	HTMLFile string

	// ChecksFile is the path of the JSON array of selectors.
	ChecksFile string

	// Document is set by LoadDocumentStep.
	Document *grader.Document

	// Checks is set by LoadChecksStep, in file order.
	Checks []string

	// Result is set by EvaluateStep.
	Result *grader.Result

	// RunID is set by SaveHistoryStep when the run was stored.
	RunID int64

	// Performed lists the names of the steps that completed.
	Performed []string
}

// NewState creates a State for the given input files.
func NewState(htmlFile, checksFile string) *State {
	return &State{
		HTMLFile:   htmlFile,
		ChecksFile: checksFile,
	}
}

// Step is one stage of a grading run.
type Step interface {
	// Do executes the step against state.
	Do(ctx context.Context, state *State) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline executes steps in order and stops at the first error.
//
// Design decision: There is no continue-on-error mode. Every step depends on
// the output of the one before it, and a report written after a failed
// evaluation would be wrong rather than partial.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a new Pipeline with the given options.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends a step to the pipeline.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs every step in sequence. Cancellation is checked between
// steps; the error of a failing step is returned unchanged.
func (p *Pipeline) Execute(ctx context.Context, state *State) error {
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", err,
			)
			return err
		}

		p.logger.Debug("executing step", "step", step.Name())

		if err := step.Do(ctx, state); err != nil {
			p.logger.Debug("step failed",
				"step", step.Name(),
				"error", err,
			)
			return err
		}

		state.Performed = append(state.Performed, step.Name())
	}
	return nil
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
