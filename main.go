package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"evodash/app"
	"evodash/internal"
	"evodash/internal/api"
	"evodash/internal/config"
	"evodash/ui"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load application configuration
	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	internal.DefaultLogger = internal.NewLogger(internal.ParseLogLevel(appConfig.LogLevel))
	gin.SetMode(appConfig.Server.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := api.NewSSEHub()
	defer hub.Close()

	// Dataset and geometry load concurrently; a dataset failure stops startup
	dashboard, err := app.Start(ctx, appConfig, hub)
	if err != nil {
		log.Fatalf("Failed to initialize dashboard: %v", err)
	}

	server, err := ui.NewServer(dashboard, hub)
	if err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	if err := server.Run(ctx, ":"+appConfig.Server.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
	log.Println("Server stopped")
}
