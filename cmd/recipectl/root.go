package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/foxxcyber/recetario/internal/config"
	"github.com/foxxcyber/recetario/internal/database"
)

var databaseURL string

var rootCmd = &cobra.Command{
	Use:   "recipectl",
	Short: "recipectl manages the recetario database",
	Long:  "recipectl works directly against the recetario database, without the HTTP API.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Load .env if it exists
		godotenv.Load()
		config.SetupLogging(config.Load())
	},
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "PostgreSQL connection string (defaults to DATABASE_URL)")
	rootCmd.AddCommand(migrateCmd)
}

// withDB connects, applies migrations and runs fn
func withDB(ctx context.Context, fn func(context.Context, *database.DB) error) error {
	url := databaseURL
	if url == "" {
		url = config.Load().DatabaseURL
	}
	db, err := database.Connect(url)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return fn(ctx, db)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd.Context(), func(ctx context.Context, db *database.DB) error {
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied")
			return nil
		})
	},
}
