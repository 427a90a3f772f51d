package main

import (
	"github.com/spf13/cobra"
	"github.com/staffpulse/analytics-api/internal/pkg/database"
	"github.com/staffpulse/analytics-api/migrations"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	run := func(action func(m *database.Migrator, cmd *cobra.Command) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return action(database.NewMigrator(cfg.DatabaseURL(), migrations.FS), cmd)
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: run(func(m *database.Migrator, cmd *cobra.Command) error {
				return m.Up(cmd.Context())
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the latest migration",
			RunE: run(func(m *database.Migrator, cmd *cobra.Command) error {
				return m.Down(cmd.Context())
			}),
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show applied migrations",
			RunE: run(func(m *database.Migrator, cmd *cobra.Command) error {
				return m.Status(cmd.Context())
			}),
		},
	)
	return cmd
}
