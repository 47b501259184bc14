package cli

import (
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"

	"github.com/t3ch-N/mAGICAL-clone-sub001/config"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/repository"
	"github.com/t3ch-N/mAGICAL-clone-sub001/pkg/database"
)

var errPostgresOnly = errors.New("versioned migrations are only available with db.driver=postgres")

// NewMigrateCommand creates the migrate command group.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(rootOpts, cmd, true, func(m *migrate.Migrate) error { return m.Up() })
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations (one step by default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(rootOpts, cmd, false, func(m *migrate.Migrate) error {
				if steps <= 0 {
					return m.Down()
				}
				return m.Steps(-steps)
			})
		},
	}
	down.Flags().IntVarP(&steps, "steps", "n", 1, "number of migrations to roll back; 0 rolls back everything")

	version := &cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(rootOpts, cmd, false, func(*migrate.Migrate) error { return nil })
		},
	}

	cmd.AddCommand(up, down, version)
	return cmd
}

// runMigrate runs fn against the embedded postgres migrations and prints the
// resulting version. With sqliteUp set, a sqlite database is auto-migrated instead.
func runMigrate(opts *RootOptions, cmd *cobra.Command, sqliteUp bool, fn func(*migrate.Migrate) error) error {
	e, err := openEnv(opts)
	if err != nil {
		return err
	}
	defer e.Close()

	if e.cfg.Database.Driver != config.DriverPostgres {
		if !sqliteUp {
			return errPostgresOnly
		}
		if err := repository.AutoMigrate(e.db); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "sqlite schema is up to date")
		return nil
	}

	sqlDB, err := e.db.DB()
	if err != nil {
		return err
	}
	m, err := database.NewMigrator(sqlDB)
	if err != nil {
		return err
	}
	if err := fn(m); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate: %w", err)
	}

	v, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		fmt.Fprintln(cmd.OutOrStdout(), "no migrations applied")
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	case dirty:
		fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty)\n", v)
	default:
		fmt.Fprintf(cmd.OutOrStdout(), "version %d\n", v)
	}
	return nil
}
