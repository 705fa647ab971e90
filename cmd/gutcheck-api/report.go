package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gutcheck-app/gutcheck/backend/internal/report"
	"github.com/gutcheck-app/gutcheck/backend/internal/repository"
	"github.com/gutcheck-app/gutcheck/backend/internal/service"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print a trends report to the terminal",
	Long:  `Compute the same trend analysis the API serves and print it as a styled terminal report.`,
	RunE:  runReport,
}

var (
	reportDays   int
	reportDevice string
)

func init() {
	reportCmd.Flags().IntVarP(&reportDays, "days", "d", 0, "Window length in days (defaults to trends.default_days)")
	reportCmd.Flags().StringVar(&reportDevice, "device", "all", "Device ID to report on, or all")
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, _, err := setup()
	if err != nil {
		return err
	}

	repo, closeRepo, err := repository.Open(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer closeRepo()

	svc := service.NewTrendsService(repo, service.Options{
		DefaultDays:  cfg.Trends.DefaultDays,
		MaxDays:      cfg.Trends.MaxDays,
		QueryTimeout: cfg.Storage.QueryTimeout,
	})

	resp, err := svc.GetTrends(cmd.Context(), reportDays, reportDevice)
	if err != nil {
		return err
	}

	return report.Render(os.Stdout, resp, service.NormalizeDeviceID(reportDevice))
}
