package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/smartprep/auth-service/docs"
	"github.com/smartprep/auth-service/internal/api/handler"
	"github.com/smartprep/auth-service/internal/api/middleware"
	"github.com/smartprep/auth-service/internal/core/domain"
	"github.com/smartprep/auth-service/internal/core/ports"
	"github.com/smartprep/auth-service/internal/core/service"
)

// Deps carries the wired collaborators the router needs. Everything is
// injected explicitly; the router owns no hidden state.
type Deps struct {
	Mongo    *mongo.Database
	Redis    *redis.Client
	Users    ports.UserRepository
	Hasher   ports.PasswordHasher
	Issuer   ports.TokenIssuer
	Throttle ports.LoginThrottle
	Log      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("auth"))

	// --- Dependencies ---
	authService := service.NewAuthService(d.Users, d.Hasher, d.Issuer, d.Throttle, d.Log)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(d.Users)
	authMiddleware := middleware.Auth(d.Issuer)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/me", userHandler.Me, authMiddleware)

	// --- Admin routes ---
	admin := e.Group("/admin", authMiddleware, middleware.RBAC(domain.RoleAdmin))
	admin.GET("/users", userHandler.List)
	admin.PATCH("/users/:username/enabled", userHandler.SetEnabled)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.Mongo, d.Redis)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
