// Package cmd provides the CLI commands for Agora.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mleroy/agora/internal/config"
	"github.com/mleroy/agora/internal/logging"
	"github.com/mleroy/agora/pkg/version"
)

var (
	configFile string
	dataPath   string
	debugMode  bool

	loggingCleanup func()
)

// NewRootCmd creates the root command for the agora CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agora",
		Short: "Serve an archived forum export over HTTP",
		Long: `Agora loads a forum export (category descriptors plus Markdown
topic files) into memory and serves it read-only over HTTP, with
title search, pagination and optional hot reload.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetVersionTemplate("agora version {{.Version}}\n")

	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to config file (default: agora.yaml in the working directory)")
	cmd.PersistentFlags().StringVar(&dataPath, "data", "", "Corpus root directory (overrides config)")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.agora/logs/")

	cmd.PersistentPreRunE = setupLogging
	cmd.PersistentPostRun = teardownLogging

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newStatsCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, formatError(err))
		return err
	}
	return nil
}

func setupLogging(_ *cobra.Command, _ []string) error {
	if !debugMode {
		return nil
	}

	cleanup, err := logging.SetupDefault(logging.DebugConfig())
	if err != nil {
		return fmt.Errorf("failed to setup debug logging: %w", err)
	}
	loggingCleanup = cleanup
	slog.Debug("debug logging enabled",
		slog.String("log_file", logging.DefaultLogPath()))
	return nil
}

func teardownLogging(_ *cobra.Command, _ []string) {
	if loggingCleanup != nil {
		loggingCleanup()
		loggingCleanup = nil
	}
}

// loadConfig builds the effective configuration from defaults, the
// config file and flags.
func loadConfig() (*config.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(cwd, configFile)
	if err != nil {
		return nil, err
	}

	if dataPath != "" {
		cfg.Data.Path = dataPath
	}
	if debugMode {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}
