package http

import (
	"context"

	"github.com/google/uuid"

	"taskboard/internal/adapter/http/handler"
	"taskboard/internal/core/port"
	"taskboard/internal/core/service"
	"taskboard/pkg/auth"
	"taskboard/pkg/config"
	"taskboard/pkg/logger"
	"taskboard/pkg/telemetry"
)

type Container struct {
	Store port.Store
	JWT   *auth.JWT

	TaskService port.TaskService
	AuthService port.AuthService

	TaskHandler   *handler.TaskHandler
	AuthHandler   *handler.AuthHandler
	HealthHandler *handler.HealthHandler
}

func NewContainer(store port.Store, cfg *config.AppConfig, log *logger.Logger, metrics *telemetry.AppMetrics, probe port.Telemetry) *Container {
	secret := cfg.Auth.JWTSecret

	// Only reachable in development; config rejects an empty secret elsewhere.
	if secret == "" {
		secret = uuid.NewString()
		log.Warn(context.Background(), "JWT_SECRET not set, tokens will not survive a restart")
	}

	jwt := auth.NewJWT(secret, cfg.Auth.JWTTTL)

	taskSvc := service.NewTaskService(store.Tasks(), probe)
	authSvc := service.NewAuthService(store.Users(), probe)

	return &Container{
		Store: store,
		JWT:   jwt,

		TaskService: taskSvc,
		AuthService: authSvc,

		TaskHandler:   handler.NewTaskHandler(taskSvc, log, metrics),
		AuthHandler:   handler.NewAuthHandler(authSvc, jwt, log, metrics),
		HealthHandler: handler.NewHealthHandler(store),
	}
}
