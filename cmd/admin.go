package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an administrator account",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger, err := loadConfigAndLogger()
		if err != nil {
			fmt.Println("Unable to load configuration", err)
			os.Exit(1)
		}
		if cfg.DatabaseURL == "" {
			fmt.Println("DATABASE_URL is required; in-memory accounts do not outlive this command")
			os.Exit(1)
		}

		email, _ := cmd.Flags().GetString("email")
		username, _ := cmd.Flags().GetString("username")
		password, _ := cmd.Flags().GetString("password")

		ctx := context.Background()
		a, err := newApp(ctx, cfg, logger)
		if err != nil {
			fmt.Println("Unable to initialize", err)
			os.Exit(1)
		}
		defer a.close()

		user, err := a.authUsecase.CreateAdmin(ctx, username, email, password)
		if err != nil {
			fmt.Println("Unable to create admin", err)
			os.Exit(1)
		}
		logger.Info("admin created", zap.String("user_id", user.ID), zap.String("email", user.Email))
	},
}

func init() {
	createAdminCmd.Flags().String("email", "", "admin email")
	createAdminCmd.Flags().String("username", "admin", "admin username")
	createAdminCmd.Flags().String("password", "", "admin password")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")
	rootCmd.AddCommand(createAdminCmd)
}
