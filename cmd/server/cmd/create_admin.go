package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/supriyo522/event-api-backend/internal/adapters/auth"
	"github.com/supriyo522/event-api-backend/internal/domain"
	"github.com/supriyo522/event-api-backend/internal/repository/postgres"
	"github.com/supriyo522/event-api-backend/internal/services"
)

var (
	adminName     string
	adminEmail    string
	adminPassword string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin user",
	Long: `Create a user with the admin role. The password may be passed with
--password or through the ADMIN_PASSWORD environment variable.

Example:
  server create-admin --name "Ops" --email ops@example.com`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		password := adminPassword
		if password == "" {
			password = os.Getenv("ADMIN_PASSWORD")
		}

		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := postgres.Open(cmd.Context(), cfg.DBUrl, 1, 0)
		if err != nil {
			return err
		}
		defer db.Close()

		users := services.NewUserService(postgres.NewUserRepository(db), auth.NewBcryptHasher(cfg.BcryptCost), auth.NewJWTIssuer(cfg.JWTSecret), cfg.JWTExpiry)
		user, err := users.Create(cmd.Context(), domain.CreateUserInput{
			Name:     adminName,
			Email:    adminEmail,
			Password: password,
			Role:     string(domain.RoleAdmin),
		})
		if err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
		logger.Info("admin created", "id", user.ID, "email", user.Email)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminName, "name", "Administrator", "display name")
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "email address (required)")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "password (default: $ADMIN_PASSWORD)")
	_ = createAdminCmd.MarkFlagRequired("email")
}
