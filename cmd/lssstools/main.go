// Package main provides the CLI entry point for lssstools.
package main

import (
	"fmt"
	"os"

	"github.com/lssstools/lssstools-go/pkg/lssstools"
	"github.com/lssstools/lssstools-go/pkg/lssstools/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lssstools",
		Short: "Convert LSSS broadband JSON exports to flat formats",
		Long: fmt.Sprintf(`lssstools flattens LSSS broadband JSON exports into tables
(CSV, JSON, xlsx, SQLite) and writes TS exports to NetCDF arrays.

Supported export types: %v`, lssstools.Supported()),
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newTableCmd(), newNCCmd(), newGridCmd(), newInfoCmd())
	return rootCmd
}

// setup loads the configuration and builds the logger shared by all commands.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	if configPath != "" {
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
	} else {
		cfg = config.Default()
	}

	level, err := cfg.ZapLevel()
	if err != nil {
		return err
	}
	logger, err = loggerConfig(level, verbose).Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	return nil
}

// loggerConfig returns the production config at level, lowered to Debug
// when verbose.
func loggerConfig(level zapcore.Level, verbose bool) zap.Config {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config
}

// converterOptions maps the loaded configuration onto conversion options.
func converterOptions() lssstools.Options {
	strict := cfg.Frequency.Strict
	return lssstools.Options{
		Logger:          logger,
		StrictFrequency: &strict,
		TimeLayouts:     cfg.TimeLayouts,
	}
}

func load(inputPath string) (*lssstools.Handle, error) {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("file not found: %s", inputPath)
	}
	return lssstools.Load(inputPath, converterOptions())
}
