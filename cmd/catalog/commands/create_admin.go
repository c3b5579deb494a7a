package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yashrajoria/catalog-service/internal/auth"
	"github.com/yashrajoria/catalog-service/internal/config"
	"github.com/yashrajoria/catalog-service/internal/database"
	"github.com/yashrajoria/catalog-service/internal/logger"
	"github.com/yashrajoria/catalog-service/internal/repository"
	"github.com/yashrajoria/catalog-service/internal/services"
)

var admin services.RegisterRequest

// createAdminCmd seeds an administrator. The HTTP API never sets isAdmin.
var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an administrator account",
	Long: `Create a user with the admin flag set.

Examples:
  catalog create-admin --name Root --email root@example.com --password s3cret --phone 555-0100`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
		log, err := logger.Initialize(cfg.Env)
		if err != nil {
			return err
		}
		defer log.Sync()
		logConfigWarnings(cfg)

		ctx := cmd.Context()
		client, db, err := database.ConnectWithConfig(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return err
		}
		defer database.Close(client)
		if err := database.EnsureIndexes(ctx, db); err != nil {
			return err
		}

		// Tokens are not issued here; the service only needs a hasher.
		svc := services.NewUserService(repository.NewUserRepository(db), auth.NewHasher(cfg.BcryptCost), nil)
		user, err := svc.CreateAdmin(ctx, admin)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", user.Email, user.ID.Hex())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(createAdminCmd)

	createAdminCmd.Flags().StringVar(&admin.Name, "name", "", "Display name (required)")
	createAdminCmd.Flags().StringVar(&admin.Email, "email", "", "Login email (required)")
	createAdminCmd.Flags().StringVar(&admin.Password, "password", "", "Password (required)")
	createAdminCmd.Flags().StringVar(&admin.Phone, "phone", "", "Phone number (required)")
	for _, f := range []string{"name", "email", "password", "phone"} {
		_ = createAdminCmd.MarkFlagRequired(f)
	}
}
