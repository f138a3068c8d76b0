package main

import (
	"fmt"
	"os"
	"strconv"

	"portal/internal/adapters/postgres"
	"portal/internal/config"
	"portal/internal/logger"

	"github.com/spf13/cobra"
)

var migrationsPath string

func main() {
	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Apply database migrations using the POSTGRES_* settings",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&migrationsPath, "path", "p", "migrations", "directory holding the migration files")

	root.AddCommand(
		&cobra.Command{
			Use:   "up [n]",
			Short: "Apply n pending migrations (all when omitted)",
			Args:  cobra.MaximumNArgs(1),
			RunE: withMigrator(func(mg *postgres.Migrator, args []string) error {
				n, err := stepsArg(args)
				if err != nil {
					return err
				}
				return mg.Up(n)
			}),
		},
		&cobra.Command{
			Use:   "down [n]",
			Short: "Revert n migrations (all when omitted)",
			Args:  cobra.MaximumNArgs(1),
			RunE: withMigrator(func(mg *postgres.Migrator, args []string) error {
				n, err := stepsArg(args)
				if err != nil {
					return err
				}
				return mg.Down(n)
			}),
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			Args:  cobra.NoArgs,
			RunE: withMigrator(func(mg *postgres.Migrator, _ []string) error {
				v, dirty, err := mg.Version()
				if err != nil {
					return err
				}
				fmt.Printf("Version: %d, Dirty: %v\n", v, dirty)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "force <version>",
			Short: "Set the schema version without running migrations",
			Args:  cobra.ExactArgs(1),
			RunE: withMigrator(func(mg *postgres.Migrator, args []string) error {
				v, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid version %q: %w", args[0], err)
				}
				return mg.Force(v)
			}),
		},
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Migration failed:", err)
		os.Exit(1)
	}
}

func stepsArg(args []string) (int, error) {
	if len(args) == 0 {
		return 0, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid step count %q", args[0])
	}
	return n, nil
}

func withMigrator(run func(mg *postgres.Migrator, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		log := logger.New(cfg)

		db, err := postgres.OpenDB(cmd.Context(), cfg.Database.URL(), log)
		if err != nil {
			return err
		}
		defer db.Close()

		mg, err := postgres.OpenMigrator(db, migrationsPath, log)
		if err != nil {
			return err
		}
		defer mg.Close()

		return run(mg, args)
	}
}
