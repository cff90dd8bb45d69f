package routes

import (
	"time"

	"librahub/internal/adapters/http/handlers"
	"librahub/internal/adapters/http/middleware"
	"librahub/internal/adapters/persistence/repositories"
	"librahub/internal/config"
	"librahub/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	roleRepo := repositories.NewRoleRepository(db)
	bookRepo := repositories.NewBookRepository(db)
	orderRepo := repositories.NewOrderRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, roleRepo, cfg)
	userService := services.NewUserService(userRepo, roleRepo)
	bookService := services.NewBookService(bookRepo, orderRepo)
	orderService := services.NewOrderService(orderRepo, bookRepo)
	dashboardService := services.NewDashboardService(db)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	bookHandler := handlers.NewBookHandler(bookService)
	orderHandler := handlers.NewOrderHandler(orderService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Prometheus metrics
	app.Get("/metrics", middleware.MetricsHandler())

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	setupAPIV1Routes(apiV1, healthHandler, authHandler, userHandler,
		bookHandler, orderHandler, dashboardHandler, cfg)
}

// setupAPIV1Routes configures API v1 routes
func setupAPIV1Routes(
	router fiber.Router,
	healthHandler *handlers.HealthHandler,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	bookHandler *handlers.BookHandler,
	orderHandler *handlers.OrderHandler,
	dashboardHandler *handlers.DashboardHandler,
	cfg *config.Config,
) {
	// API Info
	router.Get("/", healthHandler.APIInfo)

	// Auth routes (public)
	authRoutes := router.Group("/auth")
	authRoutes.Use(middleware.NoCacheHeaders())
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// Book catalog routes (public reads, staff writes)
	bookRoutes := router.Group("/books")
	setupBookRoutes(bookRoutes, bookHandler, cfg)

	// Order routes (authenticated users)
	orderRoutes := router.Group("/orders")
	orderRoutes.Use(middleware.AuthMiddleware(cfg))
	setupOrderRoutes(orderRoutes, orderHandler)

	// User management routes (Admin only)
	adminUserRoutes := router.Group("/admin/users")
	adminUserRoutes.Use(middleware.AuthMiddleware(cfg))
	adminUserRoutes.Use(middleware.AdminOnly())
	setupAdminUserRoutes(adminUserRoutes, userHandler)

	// Profile routes (Authenticated users)
	profileRoutes := router.Group("/profile")
	profileRoutes.Use(middleware.AuthMiddleware(cfg))
	setupProfileRoutes(profileRoutes, userHandler)

	// Dashboard routes (Manager/Admin)
	dashboardRoutes := router.Group("/dashboard")
	dashboardRoutes.Use(middleware.AuthMiddleware(cfg))
	dashboardRoutes.Use(middleware.ManagerOrAdmin())
	setupDashboardRoutes(dashboardRoutes, dashboardHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes (rate limited against brute force)
	router.Post("/register", middleware.AuthRateLimiter(), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Post("/refresh", middleware.AuthMiddleware(cfg), handler.Refresh)
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
}

// setupBookRoutes configures book catalog routes
func setupBookRoutes(router fiber.Router, handler *handlers.BookHandler, cfg *config.Config) {
	// Public reads, cacheable
	router.Get("/", middleware.CacheControl(60*time.Second), handler.List)
	router.Get("/:id", middleware.CacheControl(60*time.Second), handler.GetByID)

	// Manager/Admin writes
	staffRoutes := router.Group("")
	staffRoutes.Use(middleware.AuthMiddleware(cfg))
	staffRoutes.Use(middleware.ManagerOrAdmin())

	staffRoutes.Post("/", handler.Create)
	staffRoutes.Put("/:id", handler.Update)
	staffRoutes.Delete("/:id", handler.Delete)
}

// setupOrderRoutes configures ordering workflow routes
func setupOrderRoutes(router fiber.Router, handler *handlers.OrderHandler) {
	// Any authenticated user
	router.Post("/", handler.Create)
	router.Get("/my", handler.ListMine)
	router.Get("/:id", handler.GetByID)
	router.Post("/:id/cancel", handler.Cancel)

	// Manager/Admin
	staffRoutes := router.Group("")
	staffRoutes.Use(middleware.ManagerOrAdmin())

	staffRoutes.Get("/", handler.List)
	staffRoutes.Post("/:id/approve", handler.Approve)
	staffRoutes.Post("/:id/complete", handler.Complete)
	staffRoutes.Delete("/:id", handler.Delete)
}

// setupAdminUserRoutes configures user management routes (Admin only)
func setupAdminUserRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/", handler.List)
	router.Get("/:id", handler.GetByID)
	router.Put("/:id", handler.Update)
	router.Delete("/:id", handler.Delete)
	router.Post("/:id/roles", handler.AssignRole)
	router.Delete("/:id/roles", handler.RemoveRole)
	router.Put("/:id/password", handler.ResetPassword)
}

// setupProfileRoutes configures profile routes (Authenticated)
func setupProfileRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/", handler.GetProfile)
	router.Put("/", handler.UpdateProfile)
	router.Put("/password", handler.ChangePassword)
}

// setupDashboardRoutes configures dashboard routes (Manager/Admin)
func setupDashboardRoutes(router fiber.Router, handler *handlers.DashboardHandler) {
	router.Get("/", handler.GetDashboard)
}
