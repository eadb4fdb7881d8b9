package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update database tables",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger, err := loadConfigAndLogger()
		if err != nil {
			fmt.Println("Unable to load configuration", err)
			os.Exit(1)
		}
		if cfg.DatabaseURL == "" {
			fmt.Println("DATABASE_URL is required")
			os.Exit(1)
		}

		db, err := openDatabase(cfg)
		if err != nil {
			fmt.Println("Unable to migrate", err)
			os.Exit(1)
		}
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
		logger.Info("migrations applied")
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
