package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/supriyo522/event-api-backend/internal/repository/postgres"
)

var migrateSteps int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back database migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := postgres.Open(cmd.Context(), cfg.DBUrl, 1, 0)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := postgres.MigrateUp(db); err != nil {
			return err
		}
		logger.Info("migrations applied")
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrateSteps < 1 {
			return fmt.Errorf("--steps must be at least 1")
		}
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := postgres.Open(cmd.Context(), cfg.DBUrl, 1, 0)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := postgres.MigrateDown(db, migrateSteps); err != nil {
			return err
		}
		logger.Info("migrations rolled back", "steps", migrateSteps)
		return nil
	},
}

func init() {
	migrateDownCmd.Flags().IntVar(&migrateSteps, "steps", 1, "number of migrations to roll back")
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
}
