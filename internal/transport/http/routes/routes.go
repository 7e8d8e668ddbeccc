package routes

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/DennisSalmasz/dev-ticketing-rest/internal/core/domain"
	"github.com/DennisSalmasz/dev-ticketing-rest/internal/infra/config"
	"github.com/DennisSalmasz/dev-ticketing-rest/internal/transport/http/handlers"
	"github.com/DennisSalmasz/dev-ticketing-rest/internal/transport/http/middleware"
	"github.com/DennisSalmasz/dev-ticketing-rest/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Auth          *usecase.AuthService
	Confirmations *usecase.ConfirmationService
	Users         *usecase.UserService
	Roles         *usecase.RoleService
	Projects      *usecase.ProjectService
	Tasks         *usecase.TaskService
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config      *config.AppConfig
	Logger      *zap.Logger
	RateLimiter *middleware.RateLimiter
	Services    ServiceSet
	Dispatcher  handlers.NotificationDispatcher
	Metrics     *middleware.HTTPMetrics
	Database    DatabaseChecker
	Cache       CacheChecker
}

// DatabaseChecker exposes readiness behaviour for database connections.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// CacheChecker exposes readiness behaviour for cache backends.
type CacheChecker interface {
	HealthCheck(ctx context.Context) error
}

// Register configures the Gin engine with routes and middleware. Every route
// passes the authentication gate; per-route role requirements are declared
// here so the whole access policy reads in one place.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Correlate())
	r.Use(middleware.Logger(deps.Logger))
	if len(deps.Config.App.CORSOrigins) > 0 {
		r.Use(middleware.CORS(deps.Config.App.CORSOrigins))
	}
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}
	r.Use(middleware.AuthenticationGate(deps.Services.Auth))

	healthChecks := make(map[string]handlers.DependencyChecker, 2)
	if deps.Database != nil {
		healthChecks["database"] = deps.Database.Ping
	}
	if deps.Cache != nil {
		healthChecks["redis"] = deps.Cache.HealthCheck
	}
	healthHandler := handlers.NewHealthHandler(healthChecks)

	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authHandler := handlers.NewAuthHandler(deps.Services.Auth, deps.Services.Confirmations)
	userHandler := handlers.NewUserHandler(deps.Services.Users, deps.Dispatcher, deps.Logger)
	projectHandler := handlers.NewProjectHandler(deps.Services.Projects)
	taskHandler := handlers.NewTaskHandler(deps.Services.Tasks)
	roleHandler := handlers.NewRoleHandler(deps.Services.Roles)

	// Public surface: credential exchange, registration, confirmation.
	r.POST("/authenticate", withRateLimit(deps, "authenticate_ip", deps.Config.RateLimit.LoginMaxAttempts, authHandler.Authenticate)...)
	r.POST("/create-user", withRateLimit(deps, "register_ip", deps.Config.RateLimit.RegisterMaxAttempts, userHandler.Create)...)
	r.GET("/confirmation", withRateLimit(deps, "confirmation_ip", deps.Config.RateLimit.ConfirmMaxAttempts, authHandler.Confirm)...)

	admin := middleware.RequireRole(domain.RoleAdmin)
	adminOrManager := middleware.RequireRole(domain.RoleAdmin, domain.RoleManager)
	manager := middleware.RequireRole(domain.RoleManager)
	managerOrEmployee := middleware.RequireRole(domain.RoleManager, domain.RoleEmployee)
	employee := middleware.RequireRole(domain.RoleEmployee)

	api := r.Group("/api/v1")
	{
		userGroup := api.Group("/user")
		userGroup.GET("", admin, userHandler.List)
		userGroup.GET("/role", adminOrManager, userHandler.ListByRole)
		// Self-or-admin is enforced by the service against the caller's context.
		userGroup.GET("/:username", middleware.RequireAuthenticated(), userHandler.Get)
		userGroup.POST("", admin, userHandler.Create)
		userGroup.PUT("", middleware.RequireAuthenticated(), userHandler.Update)
		userGroup.DELETE("/:username", admin, userHandler.Delete)

		projectGroup := api.Group("/project")
		projectGroup.GET("", adminOrManager, projectHandler.List)
		projectGroup.GET("/details", manager, projectHandler.Details)
		projectGroup.GET("/:code", adminOrManager, projectHandler.Get)
		projectGroup.POST("", adminOrManager, projectHandler.Create)
		projectGroup.PUT("", adminOrManager, projectHandler.Update)
		projectGroup.PUT("/:code/complete", manager, projectHandler.Complete)
		projectGroup.DELETE("/:code", adminOrManager, projectHandler.Delete)

		taskGroup := api.Group("/task")
		taskGroup.GET("", manager, taskHandler.List)
		taskGroup.GET("/employee", employee, taskHandler.ListPending)
		taskGroup.PUT("/employee/update", employee, taskHandler.UpdateStatus)
		taskGroup.GET("/project-manager", manager, taskHandler.ListManaged)
		taskGroup.GET("/:id", managerOrEmployee, taskHandler.Get)
		taskGroup.POST("", manager, taskHandler.Create)
		taskGroup.PUT("", manager, taskHandler.Update)
		taskGroup.DELETE("/:id", manager, taskHandler.Delete)

		api.GET("/role", adminOrManager, roleHandler.List)
	}

	return r
}

// withRateLimit prefixes the handler with a sliding-window IP limit when rate
// limiting is configured, and returns the bare handler otherwise.
func withRateLimit(deps Dependencies, name string, limit int, handler gin.HandlerFunc) []gin.HandlerFunc {
	if deps.RateLimiter == nil || deps.Config == nil || limit <= 0 {
		return []gin.HandlerFunc{handler}
	}

	window := deps.Config.RateLimit.WindowDuration
	if window <= 0 {
		window = time.Minute
	}

	rule := middleware.RateLimitRule{
		Name:       name,
		Limit:      limit,
		Window:     window,
		Identifier: middleware.ClientIPIdentifier(),
	}

	return []gin.HandlerFunc{deps.RateLimiter.RateLimit(rule), handler}
}
