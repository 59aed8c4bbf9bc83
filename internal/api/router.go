package api

import (
	"database/sql"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/easescholar/scholar-platform/internal/api/handler"
	"github.com/easescholar/scholar-platform/internal/api/middleware"
	"github.com/easescholar/scholar-platform/internal/core/domain"
	"github.com/easescholar/scholar-platform/internal/core/ports"
	"github.com/easescholar/scholar-platform/internal/core/service"
	"github.com/easescholar/scholar-platform/internal/infrastructure/config"
	"github.com/easescholar/scholar-platform/internal/infrastructure/db/postgres"
	redisdb "github.com/easescholar/scholar-platform/internal/infrastructure/db/redis"
	"github.com/easescholar/scholar-platform/internal/infrastructure/notify"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *sql.DB, rdb *redis.Client, docs ports.DocumentStore, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("scholar"))

	// --- Dependencies ---
	userRepo := postgres.NewUserRepository(db)
	scholarshipRepo := postgres.NewScholarshipRepository(db)
	applicationRepo := postgres.NewApplicationRepository(db)
	tokenRepo := postgres.NewResetTokenRepository(db)
	settingsRepo := postgres.NewSettingsRepository(db)
	sessions := redisdb.NewSessionStore(rdb)

	authService := service.NewAuthService(userRepo, sessions, cfg.JWTSecret, cfg.SessionTTL, log)
	registrationService := service.NewRegistrationService(userRepo, docs, log)
	scholarshipService := service.NewScholarshipService(scholarshipRepo, userRepo, log)
	applicationService := service.NewApplicationService(applicationRepo, scholarshipRepo, userRepo, docs, log)
	resetService := service.NewPasswordResetService(tokenRepo, userRepo, notify.NewLogNotifier(log), log)
	adminService := service.NewAdminService(userRepo, settingsRepo, log)

	authHandler := handler.NewAuthHandler(authService, cfg.SessionTTL)
	registrationHandler := handler.NewRegistrationHandler(registrationService)
	scholarshipHandler := handler.NewScholarshipHandler(scholarshipService)
	applicationHandler := handler.NewApplicationHandler(applicationService)
	resetHandler := handler.NewResetHandler(resetService, cfg.BaseURL)
	adminHandler := handler.NewAdminHandler(adminService)

	auth := middleware.Auth(sessions, cfg.JWTSecret)
	maintenance := middleware.Maintenance(settingsRepo, log)

	// --- Public routes (maintenance-gated, login stays exempt) ---
	public := e.Group("", maintenance)
	public.POST("/auth/register", registrationHandler.Register)
	public.POST("/auth/login", authHandler.Login)
	public.POST("/auth/forgot-password", resetHandler.Forgot)
	public.GET("/auth/reset-token/:token", resetHandler.Verify)
	public.POST("/auth/reset-password", resetHandler.Reset)
	public.GET("/v1/scholarships", scholarshipHandler.ListActive)
	public.GET("/v1/scholarships/:id", scholarshipHandler.Get)

	// --- Session routes ---
	session := e.Group("", auth, maintenance)
	session.POST("/auth/logout", authHandler.Logout)
	session.GET("/auth/status", authHandler.Status)

	// --- Student routes ---
	student := e.Group("/v1/applications", auth, maintenance, middleware.RBAC(domain.RoleStudent))
	student.POST("", applicationHandler.Submit)
	student.POST("/documents", applicationHandler.UploadDocuments)

	// --- Provider routes ---
	provider := e.Group("/v1/provider", auth, maintenance, middleware.RBAC(domain.RoleProvider))
	provider.GET("/scholarships", scholarshipHandler.ListMine)
	provider.POST("/scholarships", scholarshipHandler.Create)
	provider.PUT("/scholarships/:id", scholarshipHandler.Update)
	provider.POST("/scholarships/:id/toggle", scholarshipHandler.ToggleActive)
	provider.DELETE("/scholarships/:id", scholarshipHandler.Delete)
	provider.GET("/applications", applicationHandler.ListForProvider)
	provider.POST("/applications/:id/status", applicationHandler.SetStatus)
	provider.GET("/applications/:id/documents", applicationHandler.Documents)

	// --- Admin routes (maintenance-exempt) ---
	admin := e.Group("/v1/admin", auth, middleware.RBAC(domain.RoleAdmin))
	admin.GET("/pending-approvals", adminHandler.ListPending)
	admin.POST("/users/:id/approve", adminHandler.Approve)
	admin.POST("/users/:id/reject", adminHandler.Reject)
	admin.POST("/users/:id/toggle-active", adminHandler.ToggleActive)
	admin.GET("/settings", adminHandler.Settings)
	admin.PUT("/settings", adminHandler.SaveSetting)

	// --- Uploaded documents ---
	e.Static("/static/uploads", cfg.UploadRoot)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operational surface ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
