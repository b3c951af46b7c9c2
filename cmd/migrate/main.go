package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"

	"carteira/internal/database"
	"carteira/internal/logger"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := newRootCmd().Execute(); err != nil {
		logger.Get().Fatalf("Migration error: %v", err)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "migrate",
		Short:         "Manage the Carteira PostgreSQL schema",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(
		newUpCmd(),
		newDownCmd(),
		newVersionCmd(),
		newForceCmd(),
	)

	return cmd
}

// withMigrator opens a migrate instance for the configured database and
// closes it once fn returns.
func withMigrator(fn func(m *migrate.Migrate) error) error {
	cfg, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}
	m, err := database.NewMigrator(cfg)
	if err != nil {
		return err
	}
	defer database.CloseMigrator(m)
	return fn(m)
}

func newUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return withMigrator(func(m *migrate.Migrate) error {
				if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
					return fmt.Errorf("migration up failed: %w", err)
				}
				logger.Get().Info("Migrations applied successfully")
				return nil
			})
		},
	}
}

func newDownCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "down [N]",
		Short: "Roll back the last N migrations (default 1)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			steps := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 {
					return fmt.Errorf("invalid step count %q", args[0])
				}
				steps = n
			}
			return withMigrator(func(m *migrate.Migrate) error {
				if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
					return fmt.Errorf("migration down failed: %w", err)
				}
				logger.Get().Infof("Rolled back %d migration(s)", steps)
				return nil
			})
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return withMigrator(func(m *migrate.Migrate) error {
				version, dirty, err := m.Version()
				if err != nil {
					return fmt.Errorf("failed to get version: %w", err)
				}
				logger.Get().Infof("Version: %d, Dirty: %v", version, dirty)
				return nil
			})
		},
	}
}

func newForceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "force VERSION",
		Short: "Set the schema version without running migrations, clearing the dirty flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			version, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid version %q", args[0])
			}
			return withMigrator(func(m *migrate.Migrate) error {
				if err := m.Force(version); err != nil {
					return fmt.Errorf("force failed: %w", err)
				}
				logger.Get().Infof("Forced version %d", version)
				return nil
			})
		},
	}
}
