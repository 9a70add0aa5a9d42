package main

// Run database migrations:
//   go run ./cmd/migrate            apply pending migrations
//   go run ./cmd/migrate status     print the applied version
//   go run ./cmd/migrate down       revert the last migration

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"matchrate-backend/internal/shared/config"
	"matchrate-backend/internal/shared/storage/db"
	"matchrate-backend/internal/shared/telemetry"
)

var rootCmd = &cobra.Command{
	Use:           "migrate",
	Short:         "Apply the embedded Postgres migrations",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd.Context(), func(ctx context.Context, database *sql.DB) error {
			if err := db.RunMigrations(ctx, database); err != nil {
				return err
			}
			telemetry.Info("migrate.done", nil)
			return nil
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the applied migration version and the bundled files",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd.Context(), func(ctx context.Context, database *sql.DB) error {
			version, err := db.MigrationVersion(ctx, database)
			if err != nil {
				return err
			}
			files, err := db.EmbeddedMigrations()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version %d, %d bundled migrations\n", version, len(files))
			for _, f := range files {
				fmt.Fprintln(cmd.OutOrStdout(), "  "+f)
			}
			return nil
		})
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert the most recent migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd.Context(), func(ctx context.Context, database *sql.DB) error {
			if err := db.RollbackMigration(ctx, database); err != nil {
				return err
			}
			telemetry.Info("migrate.rolled_back", nil)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(statusCmd, downCmd)
}

func withDB(ctx context.Context, fn func(context.Context, *sql.DB) error) error {
	cfg := config.Load()
	database, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFor(db.RoleMigrate))
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer database.Close()
	return fn(ctx, database)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}
