package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dtroode/daytrack-server/database"
	"github.com/dtroode/daytrack-server/internal/config"
	"github.com/dtroode/daytrack-server/internal/logger"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.NewConfig()
			if err != nil {
				return err
			}
			if cfg.Database.Driver != config.DriverPostgres {
				return fmt.Errorf("migrations need the %q driver, got %q", config.DriverPostgres, cfg.Database.Driver)
			}

			log := logger.New(cfg.LogLevel)
			if err := database.Migrate(cmd.Context(), cfg.Database.DSN); err != nil {
				return fmt.Errorf("failed to apply migrations: %w", err)
			}
			log.Info("Migrations applied")
			return nil
		},
	}
}
