package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"teamfund/internal/adapters/http/middleware"
	"teamfund/internal/adapters/http/routes"
	"teamfund/internal/adapters/persistence/models"
	"teamfund/internal/config"
	"teamfund/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "teamfund/docs" // Swagger docs
)

// @title TeamFund API
// @version 1.0
// @description Team expense reimbursement tracker API
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@teamfund.app

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host api.teamfund.app
// @BasePath /api/v1
// @schemes https

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

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "TeamFund API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db and cfg for dependency injection). The
	// notification service comes back out so the cron jobs post through
	// the same dispatcher the websocket subscribers listen on.
	notifyService := routes.Setup(app, db, cfg)

	// Start Cron Service for pending bill reminders (08:30 daily)
	cronService := services.NewCronService(db, notifyService)
	cronService.Start()
	defer cronService.Stop()

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
