package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ikkim/dualstore-shop/config"
	"github.com/ikkim/dualstore-shop/internal/app"
	"github.com/ikkim/dualstore-shop/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      cfg.Server.LogFormat,
		EnableColor: true,
	})

	logger.Info("Starting shop server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
		"store_mode":  cfg.Store.Mode,
	})

	// Open the live store
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	store, closeStore, err := app.OpenStore(ctx, cfg)
	if err != nil {
		cancel()
		logger.Fatal("Failed to open store", err)
	}
	defer closeStore()

	// Scheduled report export (optional)
	stopExports, err := app.StartReportExports(ctx, cfg, store)
	cancel()
	if err != nil {
		logger.Fatal("Failed to start report export scheduler", err)
	}
	defer stopExports()

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: app.NewEngine(cfg, store),
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}
	logger.Info("Server stopped successfully")
}
