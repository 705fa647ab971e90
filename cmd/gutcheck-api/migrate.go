package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gutcheck-app/gutcheck/backend/internal/logger"
	"github.com/gutcheck-app/gutcheck/backend/internal/repository"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the observation schema",
	Long:  `Create the observations table (postgres, sqlite) or indexes (mongo). Supabase schemas are managed by Supabase migrations.`,
	RunE:  runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	repo, closeRepo, err := repository.Open(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer closeRepo()

	migrated, err := repository.Migrate(cmd.Context(), repo)
	if err != nil {
		return err
	}
	if !migrated {
		log.Info("storage driver manages its own schema, nothing to do", logger.String("driver", cfg.Storage.Driver))
		return nil
	}

	log.Info("schema is up to date",
		logger.String("driver", cfg.Storage.Driver),
		logger.String("table", cfg.Storage.Table),
	)
	return nil
}
