package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mikey/sms-spam-classifier/internal/core"
	"github.com/mikey/sms-spam-classifier/internal/di"
	"github.com/mikey/sms-spam-classifier/internal/ports"
)

// serveCmd exposes the persisted model over HTTP
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve predictions from the persisted model",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return invoke(cmd, serve)
	},
}

// serve is the server main function that gets all dependencies injected
func serve(
	logger *zap.Logger,
	server ports.PredictionServer,
	cacheRepo core.CacheRepository,
) error {
	defer logger.Sync()

	// Start the server
	if err := server.Start(); err != nil {
		logger.Error("Failed to start server", zap.Error(err))
		return err
	}

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Info("Shutting down...")

	// Stop the server
	if err := server.Stop(); err != nil {
		logger.Error("Failed to stop server", zap.Error(err))
	}

	// Stop the cache if needed
	di.StopCache(cacheRepo)

	logger.Info("Shutdown complete")
	return nil
}
