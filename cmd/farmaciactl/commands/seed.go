package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/farmacia-api/internal/infrastructure/postgres"
	"github.com/jhoicas/farmacia-api/pkg/sanitize"
)

var (
	// Seed flags
	adminEmail    string
	adminPassword string
	adminName     string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Cargar usuario administrador, categorías y artículos iniciales",
	Long: `Crea el usuario ADMIN, las categorías base y dos artículos. Las filas existentes no se tocan.

Examples:
  farmaciactl seed --admin-password 'S3guro!'
  farmaciactl seed --admin-email ops@farmacia.test --admin-password 'S3guro!'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(adminPassword) < 6 {
			return fmt.Errorf("--admin-password debe tener al menos 6 caracteres")
		}
		ctx := cmd.Context()
		pool, err := connect(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		return postgres.Seed(ctx, pool, postgres.SeedOptions{
			AdminEmail:    sanitize.Email(adminEmail),
			AdminPassword: adminPassword,
			AdminName:     adminName,
		}, newLogger())
	},
}

func init() {
	seedCmd.Flags().StringVar(&adminEmail, "admin-email", "admin@farmacia.local", "Email del administrador")
	seedCmd.Flags().StringVar(&adminPassword, "admin-password", "", "Password del administrador (obligatorio)")
	seedCmd.Flags().StringVar(&adminName, "admin-name", "Administrador", "Nombre del administrador")
	_ = seedCmd.MarkFlagRequired("admin-password")
	rootCmd.AddCommand(seedCmd)
}
