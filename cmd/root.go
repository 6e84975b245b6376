// Package cmd implements the padwatch CLI command tree.
// This file defines the root command and registers all global persistent flags.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mkrebs/padwatch/internal/app"
	"github.com/mkrebs/padwatch/internal/config"
)

// globalFlags holds the parsed values of all persistent (global) flags.
// Commands read from this struct via the deps they receive.
var globalFlags struct {
	Source  string
	Format  string
	Quiet   bool
	Verbose bool
	Debug   bool
}

// rootCmd is the base command. Running `padwatch` with no subcommand
// prints help.
var rootCmd = &cobra.Command{
	Use:   "padwatch",
	Short: "padwatch — launch-schedule tracker for dashboard tiles",
	Long: `padwatch polls a public launch-schedule API, tracks the most recently
completed and next upcoming launch, and serves derived display state
(attributes and a rendered HTML tile) to a dashboard.

Quick start:
  padwatch config init     # create a config.json
  padwatch fetch           # one-shot fetch of the tracked launch pair
  padwatch run             # start the tracker daemon`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&globalFlags.Source, "source", "", "upstream API (spacex|ll2), overrides config")
	pf.StringVar(&globalFlags.Format, "format", "", "output format (table|json)")
	pf.BoolVarP(&globalFlags.Quiet, "quiet", "q", false, "suppress non-error output")
	pf.BoolVarP(&globalFlags.Verbose, "verbose", "v", false, "verbose logging")
	pf.BoolVar(&globalFlags.Debug, "debug", false, "debug logging (includes wire traffic)")

	rootCmd.AddCommand(runCmd, fetchCmd, statusCmd, configCmd, versionCmd)
}

// buildDeps resolves config and constructs the dependency container.
// Called at the start of each command's RunE.
func buildDeps() (*app.Deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	// Apply CLI flag overrides
	cfg.Quiet = globalFlags.Quiet
	cfg.Verbose = globalFlags.Verbose
	cfg.Debug = globalFlags.Debug
	if globalFlags.Source != "" {
		cfg.Source = globalFlags.Source
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	configureLogging(cfg)
	return app.New(cfg)
}

// configureLogging sets the process-wide slog level from flags.
func configureLogging(cfg *config.Config) {
	level := slog.LevelWarn
	switch {
	case cfg.Debug:
		level = slog.LevelDebug
	case cfg.Verbose:
		level = slog.LevelInfo
	case cfg.Quiet:
		level = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// resolveFormat returns the effective format string, falling back to "table".
func resolveFormat() string {
	if globalFlags.Format != "" {
		return globalFlags.Format
	}
	return "table"
}
