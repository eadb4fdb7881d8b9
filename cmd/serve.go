package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"syncode-backend/pkg/telemetry"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger, err := loadConfigAndLogger()
		if err != nil {
			log.Fatalln("Failed to load configuration:", err)
		}

		shutdownTelemetry := telemetry.NewProvider(cfg.OTELEndpoint, cfg.OTELStdout, logger)
		defer shutdownTelemetry()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, cfg, logger)
		if err != nil {
			logger.Fatal("failed to initialize", zap.Error(err))
		}
		defer a.close()

		a.start()
		if err := a.handler.Start(ctx, ":"+cfg.Port); err != nil {
			logger.Error("server stopped", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
