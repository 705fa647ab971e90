package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gutcheck-app/gutcheck/backend/internal/config"
	"github.com/gutcheck-app/gutcheck/backend/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "gutcheck-api",
	Short: "GutCheck API server",
	Long:  `A REST API server that turns stool and hydration observations into daily, weekly and overall gut-health trends.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(migrateCmd)
}

// setup loads configuration and installs the process-wide logger
func setup() (*config.Config, logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.NewSlogLogger(logger.Config{
		Level:     logger.ParseLevel(cfg.Logging.Level),
		Format:    cfg.Logging.Format,
		AddSource: !cfg.IsProduction(),
		Output:    os.Stderr,
	})
	logger.SetDefault(log)

	return cfg, log, nil
}
