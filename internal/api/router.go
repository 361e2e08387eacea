package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/churchops/attendance-system/docs"
	"github.com/churchops/attendance-system/internal/api/handler"
	"github.com/churchops/attendance-system/internal/api/middleware"
	"github.com/churchops/attendance-system/internal/core/domain"
	"github.com/churchops/attendance-system/internal/core/ports"
)

// Deps carries the services and infrastructure the router wires into handlers.
type Deps struct {
	Attendance ports.AttendanceService
	Catalog    ports.CatalogService
	Auth       ports.AuthService
	Roster     ports.RosterService
	DB         *mongo.Database
	Redis      *redis.Client
	JWTSecret  string
	Logger     zerolog.Logger

	// Metrics overrides the Prometheus registry for the HTTP middleware.
	// Leave nil in production to use the default registry.
	Metrics *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	if deps.Metrics != nil {
		e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Subsystem:  "attendance",
			Registerer: deps.Metrics,
		}))
	} else {
		e.Use(echoprometheus.NewMiddleware("attendance"))
	}

	// --- Handlers ---
	attendanceHandler := handler.NewAttendanceHandler(deps.Attendance)
	serviceHandler := handler.NewServiceHandler(deps.Catalog)
	authHandler := handler.NewAuthHandler(deps.Auth)
	adminHandler := handler.NewAdminHandler(deps.Roster)
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.DB, deps.Redis)

	authRequired := middleware.Auth(deps.JWTSecret)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Health probes (no auth required) ---
	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Observability ---
	if deps.Metrics != nil {
		e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: deps.Metrics}))
	} else {
		e.GET("/metrics", echoprometheus.NewHandler())
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Attendance ---
	attendance := e.Group("/api/attendance", authRequired)
	attendance.POST("/check", attendanceHandler.Check)
	attendance.GET("/my", attendanceHandler.My)
	attendance.GET("/service/:id", attendanceHandler.ByService, adminOnly)
	attendance.GET("/all", attendanceHandler.All, adminOnly)

	// --- Service catalog ---
	services := e.Group("/api/services", authRequired)
	services.GET("", serviceHandler.ListActive)
	services.GET("/next", serviceHandler.Next)
	services.GET("/all", serviceHandler.ListAll, adminOnly)

	// --- Roster administration ---
	admin := e.Group("/api/admin", authRequired, adminOnly)
	admin.POST("/pending-users", adminHandler.CreateRosterEntry)
	admin.GET("/pending-users", adminHandler.ListRosterEntries)
	admin.DELETE("/pending-users/:id", adminHandler.DeleteRosterEntry)

	return e
}
