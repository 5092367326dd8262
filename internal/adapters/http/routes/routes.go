package routes

import (
	"time"

	"tahfiz-portal/internal/adapters/http/handlers"
	"tahfiz-portal/internal/adapters/http/middleware"
	"tahfiz-portal/internal/adapters/persistence/repositories"
	"tahfiz-portal/internal/config"
	"tahfiz-portal/internal/core/services"
	"tahfiz-portal/internal/core/views"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

// Services are the wired core services the HTTP surface exposes
type Services struct {
	Auth          *services.AuthService
	Ledger        *services.LedgerService
	Withdrawals   *services.WithdrawalService
	Payments      *services.PaymentService
	Settings      *services.SettingsService
	Dashboard     *services.DashboardService
	Notifications *services.NotificationService
	Views         *views.Router
}

// NewServices wires every core service over store. Each workflow gets its
// own simulated processor with the configured latency.
func NewServices(store *repositories.Store, cfg *config.Config) *Services {
	notifier := services.NewNotificationService(store.Identities)
	ledgerService := services.NewLedgerService(store)
	dashboardService := services.NewDashboardService(store, ledgerService)
	paymentService := services.NewPaymentService(
		store,
		services.NewSimulatedProcessor(cfg.Latency.Payment),
		notifier,
		cfg.Latency.SubmissionTimeout,
	)
	settingsService := services.NewSettingsService(store, services.NewSimulatedProcessor(cfg.Latency.Settings))

	return &Services{
		Auth:   services.NewAuthService(store.Identities, cfg),
		Ledger: ledgerService,
		Withdrawals: services.NewWithdrawalService(
			store,
			ledgerService,
			services.NewSimulatedProcessor(cfg.Latency.Withdrawal),
			notifier,
		),
		Payments:      paymentService,
		Settings:      settingsService,
		Dashboard:     dashboardService,
		Notifications: notifier,
		Views: views.NewRouter(views.Deps{
			Store:     store,
			Ledger:    ledgerService,
			Dashboard: dashboardService,
			Payments:  paymentService,
			Settings:  settingsService,
		}),
	}
}

// Setup configures all routes for the application
func Setup(app *fiber.App, svc *Services, cfg *config.Config) {
	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg)
	authHandler := handlers.NewAuthHandler(svc.Auth, cfg)
	viewHandler := handlers.NewViewHandler(svc.Views)
	dashboardHandler := handlers.NewDashboardHandler(svc.Dashboard)
	ledgerHandler := handlers.NewLedgerHandler(svc.Ledger)
	withdrawalHandler := handlers.NewWithdrawalHandler(svc.Withdrawals)
	paymentHandler := handlers.NewPaymentHandler(svc.Payments)
	settingsHandler := handlers.NewSettingsHandler(svc.Settings)
	notificationHandler := handlers.NewNotificationHandler(svc.Notifications)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	requireAuth := middleware.AuthMiddleware(svc.Auth)
	optionalAuth := middleware.OptionalAuth(svc.Auth)

	// Views: landing when anonymous
	apiV1.Get("/view", optionalAuth, viewHandler.View)

	setupAuthRoutes(apiV1.Group("/auth"), authHandler, requireAuth, optionalAuth)
	apiV1.Put("/navigation", requireAuth, authHandler.Navigate)

	apiV1.Get("/dashboard", requireAuth, middleware.NoCacheHeaders(), dashboardHandler.GetDashboard)

	setupLedgerRoutes(apiV1.Group("/ledger", requireAuth, middleware.NoCacheHeaders()), ledgerHandler)
	setupWithdrawalRoutes(apiV1.Group("/withdrawals", requireAuth), withdrawalHandler)
	setupPaymentRoutes(apiV1, paymentHandler, requireAuth)
	setupSettingsRoutes(apiV1.Group("/settings", requireAuth), settingsHandler)

	apiV1.Get("/notifications", requireAuth, middleware.NoCacheHeaders(), notificationHandler.Inbox)
}

// setupAuthRoutes configures role selection and session routes
func setupAuthRoutes(router fiber.Router, h *handlers.AuthHandler, requireAuth, optionalAuth fiber.Handler) {
	router.Post("/login", middleware.AuthRateLimiter(), h.Login)
	router.Post("/logout", optionalAuth, h.Logout)
	router.Get("/me", requireAuth, h.Me)
}

// setupLedgerRoutes configures ledger routes
func setupLedgerRoutes(router fiber.Router, h *handlers.LedgerHandler) {
	router.Get("/me", middleware.TeacherOnly(), h.Mine)
	router.Get("/teachers/:id", middleware.AdminOnly(), h.Teacher)
	router.Get("/cashflow", middleware.AdminOnly(), h.CashFlow)
}

// setupWithdrawalRoutes configures teacher payout routes
func setupWithdrawalRoutes(router fiber.Router, h *handlers.WithdrawalHandler) {
	// Teacher
	router.Post("/", middleware.TeacherOnly(), middleware.SubmissionRateLimiter(), h.Request)
	router.Get("/my", middleware.TeacherOnly(), h.ListMine)

	// Admin
	router.Get("/", middleware.AdminOnly(), h.List)
	router.Put("/:id/approve", middleware.AdminOnly(), h.Approve)
	router.Put("/:id/reject", middleware.AdminOnly(), h.Reject)
}

// setupPaymentRoutes configures parent payment routes
func setupPaymentRoutes(router fiber.Router, h *handlers.PaymentHandler, requireAuth fiber.Handler) {
	payments := router.Group("/payments", requireAuth, middleware.ParentOnly())
	payments.Get("/outstanding", h.Outstanding)
	payments.Post("/:id/dialogs", h.OpenDialog)

	dialogs := router.Group("/payment-dialogs", requireAuth, middleware.ParentOnly())
	dialogs.Get("/:id", h.GetDialog)
	dialogs.Delete("/:id", h.Cancel)
	dialogs.Put("/:id/method", h.SelectMethod)
	dialogs.Post("/:id/submit", middleware.SubmissionRateLimiter(), h.Submit)
}

// setupSettingsRoutes configures settings routes
func setupSettingsRoutes(router fiber.Router, h *handlers.SettingsHandler) {
	router.Put("/profile", h.SaveProfile)
	router.Get("/school", middleware.PrivateCacheHeaders(time.Minute), h.GetSchool)
	router.Put("/school", middleware.AdminOnly(), h.SaveSchool)
}
