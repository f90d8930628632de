package routes

import (
	"time"

	"teamfund/internal/adapters/http/handlers"
	"teamfund/internal/adapters/http/middleware"
	"teamfund/internal/adapters/persistence/repositories"
	"teamfund/internal/config"
	"teamfund/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) *services.NotificationService {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	teamRepo := repositories.NewTeamRepository(db)
	branchRepo := repositories.NewBranchRepository(db)
	billRepo := repositories.NewBillRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	notifyService := services.NewNotificationService(notificationRepo)
	teamService := services.NewTeamService(teamRepo, branchRepo, userRepo)
	billService := services.NewBillService(billRepo, branchRepo, teamRepo, userRepo, notifyService)
	dashboardService := services.NewDashboardService(db, teamRepo)
	insightService := services.NewInsightService(billRepo, teamRepo, cfg)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	teamHandler := handlers.NewTeamHandler(teamService)
	billHandler := handlers.NewBillHandler(billService)
	notificationHandler := handlers.NewNotificationHandler(notifyService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	insightHandler := handlers.NewInsightHandler(insightService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	// Auth routes (public, stricter rate limits, never cached)
	authRoutes := apiV1.Group("/auth")
	authRoutes.Use(middleware.NoCacheHeaders())
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// Team routes (authenticated)
	teamRoutes := apiV1.Group("/teams")
	teamRoutes.Use(middleware.AuthMiddleware(cfg))
	setupTeamRoutes(teamRoutes, teamHandler)

	// Bill routes (authenticated)
	billRoutes := apiV1.Group("/bills")
	billRoutes.Use(middleware.AuthMiddleware(cfg))
	setupBillRoutes(billRoutes, billHandler)

	// Notification routes (authenticated)
	notificationRoutes := apiV1.Group("/notifications")
	notificationRoutes.Use(middleware.AuthMiddleware(cfg))
	setupNotificationRoutes(notificationRoutes, notificationHandler)

	// Dashboard routes (authenticated, briefly cacheable per user)
	dashboardRoutes := apiV1.Group("/dashboard")
	dashboardRoutes.Use(middleware.AuthMiddleware(cfg))
	dashboardRoutes.Use(middleware.PrivateCacheHeaders(30 * time.Second))
	dashboardRoutes.Get("/teams/:id", dashboardHandler.TeamStats)

	// Insight routes (authenticated, rate limited: each call hits the AI API)
	insightRoutes := apiV1.Group("/insights")
	insightRoutes.Use(middleware.AuthMiddleware(cfg))
	insightRoutes.Post("/analyze", middleware.AuthRateLimiter(), insightHandler.Analyze)
	insightRoutes.Post("/suggest-category", middleware.AuthRateLimiter(), insightHandler.SuggestCategory)

	return notifyService
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes
	router.Post("/register", middleware.AuthRateLimiter(), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
}

// setupTeamRoutes configures team directory routes
func setupTeamRoutes(router fiber.Router, handler *handlers.TeamHandler) {
	router.Post("/", handler.Create)
	router.Get("/", handler.List)
	router.Post("/join", handler.Join)
	router.Get("/:id", handler.Get)
	router.Get("/:id/members", handler.Members)
	router.Post("/:id/branches", handler.AddBranch)
	router.Get("/:id/branches", handler.Branches)
}

// setupBillRoutes configures bill lifecycle routes
func setupBillRoutes(router fiber.Router, handler *handlers.BillHandler) {
	router.Post("/", handler.Submit)
	router.Get("/", handler.List)
	router.Get("/mine", handler.ListMine)
	router.Get("/:id", handler.Get)
	router.Post("/:id/reject", handler.Reject)
	router.Post("/:id/pay", handler.Pay)
}

// setupNotificationRoutes configures notification routes
func setupNotificationRoutes(router fiber.Router, handler *handlers.NotificationHandler) {
	router.Get("/", handler.List)
	router.Post("/read-all", handler.MarkAllRead)
	router.Get("/stream", handler.StreamUpgrade, handler.Stream())
}
