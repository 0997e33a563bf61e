package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/valyala/fasthttp"

	"bankguard/internal/app"
	"bankguard/internal/config"
	"bankguard/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	application, err := app.New(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("Startup failed: %v", err)
	}
	defer application.Close()

	server := &fasthttp.Server{
		Handler:      application.Handler(),
		Name:         "bankguard",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		utils.LogSuccess("Server", "Listening on %s (storage: %s)", cfg.HTTPAddr, cfg.Storage)
		serverErrors <- server.ListenAndServe(cfg.HTTPAddr)
	}()

	shutdownChannel := make(chan os.Signal, 1)
	signal.Notify(shutdownChannel, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		utils.LogError("Server", "Server failed", err)
		return
	case <-shutdownChannel:
	}

	utils.LogInfo("Server", "Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.ShutdownWithContext(shutdownCtx); err != nil {
		utils.LogError("Server", "Server forced to shutdown", err)
	}
	utils.LogInfo("Server", "Server stopped")
}
