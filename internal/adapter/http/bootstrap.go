package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"taskboard/internal/adapter/http/routes"
	"taskboard/internal/adapter/ratelimit"
	"taskboard/pkg/config"
	"taskboard/pkg/logger"
	"taskboard/pkg/telemetry"
	"taskboard/web"
)

type Server struct {
	cfg    *config.AppConfig
	logger *logger.Logger
	srv    *http.Server
}

func NewServer(cfg *config.AppConfig, container *Container, log *logger.Logger, metrics *telemetry.AppMetrics, limiter ratelimit.Store) *Server {
	router := routes.SetupRouter(routes.HandlersConfig{
		AuthHandler:   container.AuthHandler,
		TaskHandler:   container.TaskHandler,
		HealthHandler: container.HealthHandler,
	}, routes.Options{
		Config:         cfg,
		Logger:         log,
		Metrics:        metrics,
		Verifier:       container.JWT,
		RateLimitStore: limiter,
		Assets:         web.Assets(),
	})

	return &Server{
		cfg:    cfg,
		logger: log,
		srv: &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
	}
}

func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Start blocks until the server stops. A graceful shutdown is not an error.
func (s *Server) Start() error {
	s.logger.Info(context.Background(), "Server starting",
		zap.String("port", s.cfg.Port),
		zap.String("environment", s.cfg.Environment),
		zap.String("database", s.cfg.Database.Driver),
		zap.String("auth_mode", s.cfg.Auth.Mode),
		zap.Bool("rate_limit_enabled", s.cfg.RateLimit.Enabled),
		zap.Bool("https_enforced", s.cfg.EnforceHTTPS))

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// NewRateLimitStore uses Redis when a URL is configured and process memory
// otherwise.
func NewRateLimitStore(ctx context.Context, cfg *config.AppConfig, log *logger.Logger) (ratelimit.Store, error) {
	if cfg.RateLimit.RedisURL == "" {
		return ratelimit.NewMemoryStore(), nil
	}

	client, err := ratelimit.NewRedisClient(ctx, cfg.RateLimit.RedisURL)

	if err != nil {
		return nil, err
	}

	log.Info(ctx, "Rate limiting backed by redis")

	return ratelimit.NewRedisStore(client, cfg.ServiceName), nil
}
