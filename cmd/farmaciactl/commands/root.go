// Package commands implementa la CLI de operación: migraciones y datos iniciales.
package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/jhoicas/farmacia-api/internal/infrastructure/postgres"
	"github.com/jhoicas/farmacia-api/pkg/config"
	"github.com/jhoicas/farmacia-api/pkg/logger"
)

var (
	// Global flags
	dbURL   string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "farmaciactl",
	Short: "Herramientas de operación de farmacia-api",
	Long: `farmaciactl aplica las migraciones de PostgreSQL y carga los datos iniciales.

La conexión se toma de --db o, si no se indica, de DATABASE_URL / DB_* (mismas variables que la API).`,
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
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "URL de conexión a PostgreSQL")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Salida detallada")
}

func newLogger() *logger.Logger {
	level := "info"
	if verbose {
		level = "debug"
	}
	return logger.New(logger.Config{Env: "development", Level: level})
}

func connect(ctx context.Context) (*pgxpool.Pool, error) {
	if dbURL != "" {
		return postgres.NewPoolFromDSN(ctx, dbURL)
	}
	return postgres.NewPool(ctx, config.LoadDB())
}
