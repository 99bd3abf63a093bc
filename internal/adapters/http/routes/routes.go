package routes

import (
	"liblend/internal/adapters/http/handlers"
	"liblend/internal/adapters/http/middleware"
	"liblend/internal/adapters/persistence/repositories"
	"liblend/internal/config"
	"liblend/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	bookRepo := repositories.NewBookRepository(db)
	loanRepo := repositories.NewLoanRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	catalogService := services.NewCatalogService(bookRepo)
	ledgerService := services.NewLedgerService(db, bookRepo, loanRepo)
	reportService := services.NewReportService(loanRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	bookHandler := handlers.NewBookHandler(catalogService)
	loanHandler := handlers.NewLoanHandler(ledgerService)
	reportHandler := handlers.NewReportHandler(reportService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	setupAPIV1Routes(apiV1, healthHandler, authHandler, bookHandler, loanHandler, reportHandler, cfg)
}

// setupAPIV1Routes configures API v1 routes
func setupAPIV1Routes(
	router fiber.Router,
	healthHandler *handlers.HealthHandler,
	authHandler *handlers.AuthHandler,
	bookHandler *handlers.BookHandler,
	loanHandler *handlers.LoanHandler,
	reportHandler *handlers.ReportHandler,
	cfg *config.Config,
) {
	// API Info
	router.Get("/", healthHandler.APIInfo)

	// Auth routes (public)
	authRoutes := router.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// Catalog routes (public reads, admin writes)
	bookRoutes := router.Group("/books")
	setupBookRoutes(bookRoutes, bookHandler, cfg)

	// Loan ledger routes (authenticated)
	loanRoutes := router.Group("/loans")
	loanRoutes.Use(middleware.AuthMiddleware(cfg))
	setupLoanRoutes(loanRoutes, loanHandler)

	// Report routes (Admin only)
	reportRoutes := router.Group("/reports")
	reportRoutes.Use(middleware.AuthMiddleware(cfg))
	reportRoutes.Use(middleware.AdminOnly())
	setupReportRoutes(reportRoutes, reportHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes (rate limited against brute force)
	router.Post("/register", middleware.AuthRateLimiter(), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
}

// setupBookRoutes configures catalog routes
func setupBookRoutes(router fiber.Router, handler *handlers.BookHandler, cfg *config.Config) {
	// Public reads
	router.Get("/", handler.List)
	router.Get("/:id", handler.GetByID)

	// Admin writes
	router.Post("/", middleware.AuthMiddleware(cfg), middleware.AdminOnly(), handler.Add)
}

// setupLoanRoutes configures loan ledger routes
func setupLoanRoutes(router fiber.Router, handler *handlers.LoanHandler) {
	// Borrower can view their own history
	router.Get("/my", handler.My)

	// Admin routes
	adminRoutes := router.Group("")
	adminRoutes.Use(middleware.AdminOnly())

	adminRoutes.Post("/", handler.Issue)
	adminRoutes.Get("/", handler.ListOpen)
	adminRoutes.Put("/:id/return", handler.Return)

	// Admin, or the borrower themselves (checked in the service)
	router.Get("/borrower/:id", handler.History)
}

// setupReportRoutes configures reporting routes (Admin only)
func setupReportRoutes(router fiber.Router, handler *handlers.ReportHandler) {
	router.Get("/outstanding", handler.Outstanding)
	router.Get("/top-borrowers", handler.TopBorrowers)
}
