package main

import (
	"os/signal"
	"syscall"

	"github.com/ferrerallan/christmas-card-chain/internal/platform/logger"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long:  `Serves the card form at / and the card API at /api/cards until interrupted.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configFile, _ := cmd.Flags().GetString("config")
			cfg, err := loadAppConfig(configFile)
			if err != nil {
				return err
			}

			if port, _ := cmd.Flags().GetInt("port"); port > 0 {
				cfg.Server.Port = port
			}

			log, err := logger.Setup(cfg.Server)
			if err != nil {
				return err
			}
			log.Info("Server configuration loaded",
				"port", cfg.Server.Port,
				"log_level", cfg.Server.LogLevel)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app, err := newApplication(ctx, cfg, log)
			if err != nil {
				return err
			}

			return app.startHTTPServer(ctx, app.setupRouter())
		},
	}

	cmd.Flags().Int("port", 0, "Port to listen on (overrides server.port)")
	return cmd
}
