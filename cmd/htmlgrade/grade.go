package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/nao1215/htmlgrade/internal/config"
	"github.com/nao1215/htmlgrade/internal/grader"
	"github.com/nao1215/htmlgrade/internal/log"
	"github.com/nao1215/htmlgrade/internal/pipeline"
	"github.com/nao1215/htmlgrade/internal/report"
	"github.com/spf13/cobra"
)

// runGradeCmd executes the root command.
func runGradeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Both inputs are checked before anything is read. The diagnostic goes
	// to stdout.
	for _, path := range []string{cfg.HTMLFile, cfg.ChecksFile} {
		if _, err := grader.ValidateFileExists(path); err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), err)
			return err
		}
	}

	logger := log.NewSecureLogger(cmd.ErrOrStderr(), cfg.Verbose)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runGrade(ctx, cmd.OutOrStdout(), cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from defaults, the config file and flags.
// Flags only override the file when they were set explicitly.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	file, err := config.Resolve(cfg.ConfigFilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", cfg.ConfigFilePath, err)
	}
	cfg.ApplyFile(file)

	flags := cmd.Flags()
	if flags.Changed("file") {
		if cfg.HTMLFile, err = flags.GetString("file"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("checks") {
		if cfg.ChecksFile, err = flags.GetString("checks"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("format") {
		if cfg.Format, err = flags.GetString("format"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("lenient") {
		if cfg.Lenient, err = flags.GetBool("lenient"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("concurrency") {
		if cfg.Concurrency, err = flags.GetInt("concurrency"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("save") {
		if cfg.SaveHistory, err = flags.GetBool("save"); err != nil {
			return nil, err
		}
	}

	cfg.OutputFile, err = flags.GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, nil
}

// runGrade loads both inputs, evaluates the checks and writes the report.
func runGrade(ctx context.Context, stdout io.Writer, cfg *config.Config, logger *slog.Logger) error {
	opts := []grader.Option{grader.WithConcurrency(cfg.Concurrency)}
	if cfg.Lenient {
		opts = append(opts, grader.WithLenient())
	}

	p := pipeline.New(pipeline.WithLogger(logger))
	p.AddSteps(
		pipeline.NewLoadDocumentStep(logger),
		pipeline.NewLoadChecksStep(logger),
		pipeline.NewEvaluateStep(logger, opts...),
		pipeline.NewReportStep(func(rep *report.Report) error {
			return writeReport(stdout, cfg, rep)
		}),
	)
	if cfg.SaveHistory {
		p.AddStep(pipeline.NewSaveHistoryStep(cfg.DBDir, logger))
	}

	return p.Execute(ctx, pipeline.NewState(cfg.HTMLFile, cfg.ChecksFile))
}

// writeReport renders rep to stdout or to cfg.OutputFile.
func writeReport(stdout io.Writer, cfg *config.Config, rep *report.Report) error {
	out := stdout
	if cfg.OutputFile != "" {
		dir := filepath.Dir(cfg.OutputFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create directory: %w", err)
			}
		}
		f, err := os.Create(cfg.OutputFile) //nolint:gosec // User-provided output path is intentional
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close()
		out = f
	}

	w, err := report.NewWriter(cfg.Format, out)
	if err != nil {
		return err
	}
	if _, err := w.Write(rep); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
