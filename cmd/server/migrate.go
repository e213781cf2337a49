package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"natesa/backend/pkg/database"
)

func newMigrateCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply all pending schema migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			sqlDB, err := a.db.DB()
			if err != nil {
				return fmt.Errorf("get sql.DB: %w", err)
			}
			return database.RunMigrations(sqlDB, a.logger)
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if steps < 1 {
				return fmt.Errorf("--steps must be at least 1")
			}
			a, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			sqlDB, err := a.db.DB()
			if err != nil {
				return fmt.Errorf("get sql.DB: %w", err)
			}
			return database.RollbackMigrations(sqlDB, steps, a.logger)
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")
	cmd.AddCommand(down)

	return cmd
}
