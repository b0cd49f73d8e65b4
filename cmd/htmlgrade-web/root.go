package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/nao1215/htmlgrade/internal/config"
	"github.com/nao1215/htmlgrade/internal/log"
	"github.com/nao1215/htmlgrade/internal/server"
	"github.com/nao1215/htmlgrade/internal/version"
	"github.com/spf13/cobra"
)

// defaultEnvFile is read for PORT when present.
const defaultEnvFile = ".env"

// NewRootCmd creates the root command for htmlgrade-web.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "htmlgrade-web",
		Short: "Serve an HTML page and its static assets",
		Long: `htmlgrade-web serves the index file at "/" and everything under the
static directory at the remaining paths. The index file is read from disk
on every request.

The port is taken from --port, then the PORT environment variable (a .env
file in the working directory is honored), then the configuration file,
and finally defaults to 5000.

Examples:
  # Serve index.html and ./public on port 5000
  htmlgrade-web

  # Pick the port from the environment
  PORT=8080 htmlgrade-web

  # Serve another page with JSON request logs
  htmlgrade-web --index site/index.html --static site/assets --log-json`,
		Version:       version.Get().Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServeCmd,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().String("config", "",
		"Configuration file path (default: .htmlgrade in current or home directory)")

	cmd.Flags().IntP("port", "p", config.DefaultPort, "Port to listen on (overrides PORT)")
	cmd.Flags().String("index", config.DefaultIndexFile, "HTML file served at /")
	cmd.Flags().String("static", config.DefaultStaticDir, "Directory of static assets")
	cmd.Flags().String("env-file", defaultEnvFile, "dotenv file read for PORT")
	cmd.Flags().Bool("log-json", false, "Write logs as JSON")

	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// runServeCmd executes the root command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	envFile, err := cmd.Flags().GetString("env-file")
	if err != nil {
		return err
	}
	lookup, err := envLookup(envFile)
	if err != nil {
		return err
	}

	cfg, err := buildServerConfig(cmd, lookup)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := log.NewLogger(cmd.ErrOrStderr(), level, cfg.LogJSON)
	slog.SetDefault(logger)

	if info, err := os.Stat(cfg.StaticDir); err != nil || !info.IsDir() {
		logger.Warn("static directory not found, only / will be served", "static", cfg.StaticDir)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(cfg, logger).ListenAndServe(ctx)
}

// envLookup returns a lookup over the process environment backed by the
// variables in envFile. Process variables win. A missing envFile is not
// an error.
func envLookup(envFile string) (func(string) (string, bool), error) {
	vars := map[string]string{}
	if envFile != "" {
		read, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			vars = read
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
		}
	}

	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := vars[key]
		return v, ok
	}, nil
}

// buildServerConfig creates a ServerConfig from defaults, the config file,
// the environment and flags, each overriding the previous.
func buildServerConfig(cmd *cobra.Command, lookup func(string) (string, bool)) (*config.ServerConfig, error) {
	cfg := config.NewServerConfig()

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

	if err := cfg.ApplyEnv(lookup); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("port") {
		if cfg.Port, err = flags.GetInt("port"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("index") {
		if cfg.IndexFile, err = flags.GetString("index"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("static") {
		if cfg.StaticDir, err = flags.GetString("static"); err != nil {
			return nil, err
		}
	}
	if cfg.LogJSON, err = flags.GetBool("log-json"); err != nil {
		return nil, err
	}
	if cfg.Verbose, err = flags.GetBool("verbose"); err != nil {
		return nil, err
	}

	return cfg, nil
}
