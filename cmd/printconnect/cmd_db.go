package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Raymond9734/print-connect-backend/internal/app"
	"github.com/Raymond9734/print-connect-backend/internal/config"
	"github.com/Raymond9734/print-connect-backend/internal/db"
	"github.com/Raymond9734/print-connect-backend/internal/repository"
)

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

// bootDB loads config and opens the database connection
func bootDB() (*config.Config, *db.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	database, err := app.OpenDatabase(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, database, nil
}

// printconnect migrate
func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the Postgres schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, database, err := bootDB()
			if err != nil {
				return err
			}
			defer database.Close()

			fmt.Fprintln(cmd.OutOrStdout(), "Running migrations…")
			if err := database.Migrate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date.")
			return nil
		},
	}
}

// printconnect seed
func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the fixture providers, orders and users into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, database, err := bootDB()
			if err != nil {
				return err
			}
			defer database.Close()

			ds, err := app.LoadDataset(cfg)
			if err != nil {
				return err
			}

			if err := database.Migrate(cmd.Context()); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Running seeders…")
			if err := repository.Seed(cmd.Context(), database.DB, ds); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d providers and %d users.\n", len(ds.Providers), len(ds.Users))
			return nil
		},
	}
}
