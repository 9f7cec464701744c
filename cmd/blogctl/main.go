// Command blogctl manages categories, locations and accounts from the shell.
package main

import (
	"fmt"
	"os"

	"blogicum/internal/config"
	"blogicum/internal/db"
	"blogicum/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app holds the lazily opened database shared by all subcommands.
type app struct {
	open   func() (*gorm.DB, *zap.Logger, error)
	db     *gorm.DB
	logger *zap.Logger
}

func (a *app) connect() error {
	if a.db != nil {
		return nil
	}
	database, logger, err := a.open()
	if err != nil {
		return err
	}
	a.db, a.logger = database, logger
	return nil
}

func openFromConfig() (*gorm.DB, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.LogLevel, cfg.IsProduction())
	if err != nil {
		return nil, nil, err
	}
	database, err := db.Open(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return database, logger, nil
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "blogctl",
		Short:         "Manage blogicum content from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.connect()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.AddCommand(
		newMigrateCmd(a),
		newSeedCmd(a),
		newCategoryCmd(a),
		newLocationCmd(a),
		newUserCmd(a),
	)
	return root
}

// migrateCmd applies the schema. Opening the database already migrates it.
func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := db.Migrate(a.db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			return nil
		},
	}
}

func newSeedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert starter categories and locations into an empty database",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := db.Seed(a.db)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %d rows\n", n)
			return nil
		},
	}
}

func main() {
	if err := newRootCmd(&app{open: openFromConfig}).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
