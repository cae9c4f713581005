package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/ariefcatur/go-product-reviews/internal/catalog"
	"github.com/ariefcatur/go-product-reviews/internal/config"
	"github.com/ariefcatur/go-product-reviews/internal/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	dbURL      string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "catalogctl",
	Short: "Operator tool for the product catalog",
	Long: `catalogctl talks directly to the catalog database.

Examples:
  catalogctl seed --reset          # Load the sample catalog
  catalogctl stats --json          # Print product and review statistics`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "Database connection URL (default: POSTGRES_DSN)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
}

// openRepo connects, ensures the schema exists and returns the repo.
func openRepo(ctx context.Context) (*catalog.Repo, *pgxpool.Pool, error) {
	dsn := dbURL
	if dsn == "" {
		dsn = config.Load().PostgresDSN
	}
	pool, err := postgres.Connect(ctx, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return &catalog.Repo{DB: pool}, pool, nil
}
