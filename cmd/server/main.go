package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tahfiz-portal/internal/adapters/http/middleware"
	"tahfiz-portal/internal/adapters/http/routes"
	"tahfiz-portal/internal/config"
	"tahfiz-portal/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "tahfiz-portal/docs" // Swagger docs
)

// @title Tahfiz Portal API
// @version 1.0
// @description Portal pengurusan madrasah tahfiz: dompet ustaz, yuran ibu bapa dan kewangan pentadbir.

// @contact.name API Support
// @contact.email support@tahfiz.my

// @host localhost:3000
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Open record store
	store, err := config.OpenStore(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to open record store: %v", err)
	}
	defer config.CloseDatabase()

	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 30*time.Second)
	if err := config.NewSeeder(store).Run(seedCtx); err != nil {
		cancelSeed()
		log.Fatalf("❌ Failed to seed demo data: %v", err)
	}
	cancelSeed()

	svc := routes.NewServices(store, cfg)

	// Payout digest and dialog reaper
	cronService := services.NewCronService(cfg.Jobs, store.Withdrawals, svc.Payments, svc.Auth, svc.Notifications)
	if err := cronService.Start(); err != nil {
		log.Fatalf("❌ Failed to start cron service: %v", err)
	}
	defer cronService.Stop()

	app := fiber.New(fiber.Config{
		AppName:      "Tahfiz Portal API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	middleware.Setup(app, cfg)
	routes.Setup(app, svc, cfg)

	go gracefulShutdown(app)

	log.Printf("🚀 Server starting on port %s [MODE: %s, STORE: %s]", cfg.Port, cfg.AppMode, cfg.StoreDriver)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Printf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
