package main

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gatherly/gatherly/internal/config"
	"github.com/gatherly/gatherly/internal/repository"
)

// newMigrateCmd creates the migrate command and its subcommands.
func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database schema migrations",
		Long:  `Apply or roll back the embedded PostgreSQL migrations. Only DATABASE_URL is required.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigration(cmd, func(databaseURL string) error {
				return repository.MigrateUp(databaseURL)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down N",
		Short: "Roll back the last N migrations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, err := parseSteps(args[0])
			if err != nil {
				return err
			}
			return runMigration(cmd, func(databaseURL string) error {
				return repository.MigrateDown(databaseURL, steps)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigration(cmd, func(databaseURL string) error {
				version, dirty, err := repository.MigrationVersion(databaseURL)
				if err != nil {
					return err
				}
				cmd.Printf("version %d (dirty=%t)\n", version, dirty)
				return nil
			})
		},
	})

	return cmd
}

func runMigration(cmd *cobra.Command, fn func(databaseURL string) error) error {
	cfg, err := config.LoadMigrate()
	if err != nil {
		return err
	}
	logger := initLogger(cfg.LogLevel, cfg.LogFormat)

	if err := fn(cfg.DatabaseURL); err != nil {
		logger.Error("migration failed",
			slog.String("command", cmd.CommandPath()),
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		return fmt.Errorf("%s failed", cmd.CommandPath())
	}

	logger.Info("migration complete", slog.String("command", cmd.CommandPath()))
	return nil
}

func parseSteps(arg string) (int, error) {
	steps, err := strconv.Atoi(arg)
	if err != nil || steps <= 0 {
		return 0, fmt.Errorf("N must be a positive integer, got %q", arg)
	}
	return steps, nil
}
