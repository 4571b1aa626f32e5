package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/campushq/campus-admin-api/internal/api/handler"
	"github.com/campushq/campus-admin-api/internal/api/middleware"
	"github.com/campushq/campus-admin-api/internal/core/domain"
	"github.com/campushq/campus-admin-api/internal/core/ports"
	"github.com/campushq/campus-admin-api/internal/infrastructure/queue"
)

// Deps carries everything the router wires together. Mongo and Redis may be
// nil in development mode; the readiness probe then skips them.
type Deps struct {
	Sessions     ports.SessionService
	Courses      ports.CourseService
	Catalog      ports.CatalogService
	SessionStore ports.SessionStore
	Clock        ports.Clock
	Dispatcher   *queue.Dispatcher
	Mongo        *mongo.Database
	Redis        *redis.Client
	Logger       zerolog.Logger
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
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("campus"))

	authMiddleware := middleware.Auth(deps.SessionStore, deps.Clock)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(deps.Sessions)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/refresh", authHandler.Refresh)
	e.POST("/auth/logout", authHandler.Logout)
	e.GET("/auth/me", authHandler.Me)
	e.POST("/auth/role", authHandler.ChangeRole, authMiddleware)

	// --- Catalog ---
	catalogHandler := handler.NewCatalogHandler(deps.Catalog)
	e.GET("/catalog/modules", catalogHandler.Modules, authMiddleware)

	// --- Courses ---
	courseHandler := handler.NewCourseHandler(deps.Courses, deps.Dispatcher)
	courses := e.Group("/courses", authMiddleware)
	courses.GET("", courseHandler.List)
	courses.GET("/:code", courseHandler.Get)
	courses.POST("", courseHandler.Create, middleware.RBAC(domain.RoleAdmin, domain.RoleTeacher))
	courses.DELETE("/:code", courseHandler.Delete, middleware.RBAC(domain.RoleAdmin))
	courses.POST("/import", courseHandler.Import, middleware.RBAC(domain.RoleAdmin))
	courses.GET("/import/:job_id", courseHandler.ImportStatus, middleware.RBAC(domain.RoleAdmin))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
