package routes

import (
	"finec-backoffice/internal/adapters/http/handlers"
	"finec-backoffice/internal/adapters/http/middleware"
	"finec-backoffice/internal/adapters/persistence/repositories"
	"finec-backoffice/internal/config"
	"finec-backoffice/internal/core/services"
	"finec-backoffice/internal/pkg/keylock"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	agencyRepo := repositories.NewAgencyRepository(db)
	loanRepo := repositories.NewLoanRequestRepository(db)
	accountRepo := repositories.NewAccountRepository(db)
	creditRepo := repositories.NewCreditRepository(db)
	savingsRepo := repositories.NewSavingsRepository(db)
	chequeRepo := repositories.NewChequeRepository(db)
	historyRepo := repositories.NewHistoryRepository(db)

	// One lock table shared by every service that mutates ledgers
	locks := keylock.New()

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	userService := services.NewUserService(userRepo, agencyRepo)
	agencyService := services.NewAgencyService(agencyRepo)
	loanService := services.NewLoanService(loanRepo, creditRepo, userRepo, locks)
	accountService := services.NewAccountService(accountRepo, userRepo, locks)
	creditService := services.NewCreditService(creditRepo, locks)
	savingsService := services.NewSavingsService(savingsRepo, userRepo, locks)
	chequeService := services.NewChequeService(chequeRepo, userRepo)
	statsService := services.NewStatsService(loanRepo, accountRepo, creditRepo, savingsRepo, agencyRepo)
	auditService := services.NewAuditService(historyRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db, cfg)
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	agencyHandler := handlers.NewAgencyHandler(agencyService)
	loanHandler := handlers.NewLoanHandler(loanService)
	accountHandler := handlers.NewAccountHandler(accountService)
	creditHandler := handlers.NewCreditHandler(creditService)
	savingsHandler := handlers.NewSavingsHandler(savingsService)
	chequeHandler := handlers.NewChequeHandler(chequeService)
	dashboardHandler := handlers.NewDashboardHandler(statsService)
	auditHandler := handlers.NewAuditHandler(auditService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	// Auth routes (public, rate limited)
	authRoutes := apiV1.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// Everything below requires a valid session
	protected := apiV1.Group("", middleware.AuthMiddleware(cfg))

	// User administration (DSI only, except /me)
	userRoutes := protected.Group("/users")
	setupUserRoutes(userRoutes, userHandler)

	// Agency reference data
	agencyRoutes := protected.Group("/agencies")
	agencyRoutes.Get("/", agencyHandler.List)
	agencyRoutes.Get("/:id", agencyHandler.Get)

	// Loan requests and their approval chain
	loanRoutes := protected.Group("/loans")
	setupLoanRoutes(loanRoutes, loanHandler)
	loanRoutes.Get("/:id/history", auditHandler.LoanHistory)

	// Account opening requests
	accountRoutes := protected.Group("/accounts")
	setupAccountRoutes(accountRoutes, accountHandler)
	accountRoutes.Get("/:id/history", auditHandler.AccountHistory)

	// Active credits and repayments
	creditRoutes := protected.Group("/credits")
	creditRoutes.Get("/", creditHandler.List)
	creditRoutes.Get("/:id", creditHandler.Get)
	creditRoutes.Post("/:id/payments", creditHandler.RecordPayment)

	// Savings accounts and their ledger
	savingsRoutes := protected.Group("/savings")
	setupSavingsRoutes(savingsRoutes, savingsHandler)

	// Cheque registry
	chequeRoutes := protected.Group("/cheques")
	chequeRoutes.Post("/", chequeHandler.Create)
	chequeRoutes.Get("/", chequeHandler.List)
	chequeRoutes.Get("/:id", chequeHandler.Get)
	chequeRoutes.Put("/:id/status", chequeHandler.SetStatus)

	// Dashboard
	dashboardRoutes := protected.Group("/dashboard")
	dashboardRoutes.Get("/stats", dashboardHandler.Stats)
	dashboardRoutes.Get("/agencies", dashboardHandler.AgencyPerformances)

	// Audit log (the service enforces the DG/DSI gate)
	protected.Get("/audit", auditHandler.List)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
}

// setupUserRoutes configures user management routes
func setupUserRoutes(router fiber.Router, handler *handlers.UserHandler) {
	// Any authenticated user can read their own profile
	router.Get("/me", handler.Me)

	// Administration is DSI only
	adminRoutes := router.Group("", middleware.DSIOnly())
	adminRoutes.Post("/", handler.Create)
	adminRoutes.Get("/", handler.List)
	adminRoutes.Get("/:id", handler.Get)
	adminRoutes.Put("/:id", handler.Update)
	adminRoutes.Delete("/:id", handler.Delete)
}

// setupLoanRoutes configures loan request routes
func setupLoanRoutes(router fiber.Router, handler *handlers.LoanHandler) {
	router.Post("/", handler.Create)
	router.Get("/", handler.List)
	router.Get("/:id", handler.Get)
	router.Put("/:id/approve", handler.Approve)
	router.Put("/:id/reject", handler.Reject)
	router.Put("/:id/documents", handler.UpdateDocuments)
	router.Put("/:id/sign", handler.Sign)
}

// setupAccountRoutes configures account opening routes
func setupAccountRoutes(router fiber.Router, handler *handlers.AccountHandler) {
	router.Post("/", handler.Create)
	router.Get("/", handler.List)
	router.Get("/:id", handler.Get)
	router.Put("/:id/approve", handler.Approve)
	router.Put("/:id/reject", handler.Reject)
	router.Put("/:id/documents", handler.UpdateDocuments)
	router.Put("/:id/sign", handler.Sign)
}

// setupSavingsRoutes configures savings routes
func setupSavingsRoutes(router fiber.Router, handler *handlers.SavingsHandler) {
	router.Post("/", handler.Open)
	router.Get("/", handler.List)
	router.Get("/:id", handler.Get)
	router.Post("/:id/deposits", handler.RecordDeposit)
	router.Post("/:id/withdrawals", handler.RecordWithdrawal)
}
