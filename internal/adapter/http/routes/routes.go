package routes

import (
	"io/fs"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"taskboard/internal/adapter/http/handler"
	"taskboard/internal/adapter/http/helper"
	"taskboard/internal/adapter/http/middleware"
	"taskboard/internal/adapter/ratelimit"
	"taskboard/internal/core/port"
	"taskboard/pkg/config"
	"taskboard/pkg/logger"
	"taskboard/pkg/telemetry"
)

type HandlersConfig struct {
	AuthHandler   *handler.AuthHandler
	TaskHandler   *handler.TaskHandler
	HealthHandler *handler.HealthHandler
}

// Options carries the collaborators the middleware chain needs.
type Options struct {
	Config         *config.AppConfig
	Logger         *logger.Logger
	Metrics        *telemetry.AppMetrics
	Verifier       port.TokenVerifier
	RateLimitStore ratelimit.Store
	Assets         fs.FS
}

func SetupRouter(handlers HandlersConfig, opts Options) *gin.Engine {
	if opts.Config == nil {
		opts.Config = config.GetDefaultConfig()
	}

	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}

	router := gin.New()

	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		opts.Logger.Error(c.Request.Context(), "Recovered from panic", zap.Any("panic", recovered))
		helper.SendInternalError(c, helper.MessageInternal)
	}))

	router.Use(otelgin.Middleware(opts.Config.ServiceName))
	router.Use(middleware.NewHTTPSEnforcer(opts.Config.EnforceHTTPS, opts.Logger.Zap()).HTTPSMiddleware())
	router.Use(middleware.CurrentMiddleware())
	router.Use(middleware.LoggingMiddleware(opts.Logger))

	if opts.Metrics != nil {
		router.Use(middleware.MetricsMiddleware(opts.Metrics))
	}

	router.Use(corsMiddleware())

	if opts.Config.RateLimit.Enabled && opts.RateLimitStore != nil {
		limiter := middleware.NewRateLimiter(opts.RateLimitStore, opts.Logger.Zap(), opts.Metrics)
		router.Use(limiter.RateLimitMiddleware())
	}

	if handlers.HealthHandler != nil {
		router.GET("/health", handlers.HealthHandler.Health)
	}

	api := router.Group("/api")

	if handlers.AuthHandler != nil {
		setupAuthRoutes(api, handlers.AuthHandler, opts.Verifier)
	}

	if handlers.TaskHandler != nil {
		gate := middleware.JwtMiddleware(opts.Verifier)

		if !opts.Config.AuthRequired() {
			gate = middleware.OptionalJwtMiddleware(opts.Verifier)
		}

		setupTaskRoutes(api, handlers.TaskHandler, gate)
	}

	if opts.Assets != nil {
		setupWebRoutes(router, opts.Assets)
	}

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			helper.SendNotFoundError(c, helper.MessageRouteNotFound)
			return
		}

		c.String(http.StatusNotFound, "404 page not found")
	})

	return router
}

// SetupRouterForTests builds the API routes without the ambient middleware.
func SetupRouterForTests(handlers HandlersConfig, cfg *config.AppConfig, verifier port.TokenVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)

	return SetupRouter(handlers, Options{
		Config:   cfg,
		Verifier: verifier,
	})
}

func setupAuthRoutes(api *gin.RouterGroup, authHandler *handler.AuthHandler, verifier port.TokenVerifier) {
	api.POST("/register", authHandler.Register)
	api.POST("/login", authHandler.Login)
	api.GET("/me", middleware.JwtMiddleware(verifier), authHandler.Me)
}

func setupTaskRoutes(api *gin.RouterGroup, taskHandler *handler.TaskHandler, gate gin.HandlerFunc) {
	tasks := api.Group("/tasks")
	tasks.Use(gate)
	{
		tasks.GET("", taskHandler.List)
		tasks.POST("", taskHandler.Create)
		tasks.PATCH("/:id", taskHandler.UpdateStatus)
		tasks.POST("/:id/toggle", taskHandler.Toggle)
		tasks.DELETE("/:id", taskHandler.Delete)
	}
}

func setupWebRoutes(router *gin.Engine, assets fs.FS) {
	page := func(name string) gin.HandlerFunc {
		return func(c *gin.Context) {
			c.FileFromFS(name, http.FS(assets))
		}
	}

	router.GET("/", page("login.html"))
	router.GET("/login", page("login.html"))
	router.GET("/register", page("register.html"))
	router.GET("/dashboard", page("dashboard.html"))

	router.StaticFS("/static", http.FS(assets))
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
