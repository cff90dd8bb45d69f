package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"librahub/internal/gateway"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env if present (production uses real env vars)
	_ = godotenv.Load()

	cfg, err := gateway.LoadConfig()
	if err != nil {
		log.Fatalf("❌ Failed to load gateway configuration: %v", err)
	}

	app := gateway.New(cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	log.Printf("🚀 Gateway starting on port %s (%d routes)", cfg.Port, len(cfg.Routes))
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start gateway: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down gateway...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Gateway stopped gracefully")
}
