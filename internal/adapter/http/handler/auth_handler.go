package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	. "taskboard/internal/adapter/http/helper"
	"taskboard/internal/adapter/http/middleware"
	. "taskboard/internal/adapter/http/validation"
	"taskboard/internal/core/domain"
	"taskboard/internal/core/model/request"
	"taskboard/internal/core/model/response"
	"taskboard/internal/core/port"
	"taskboard/internal/core/util"
	"taskboard/pkg/logger"
	"taskboard/pkg/telemetry"
)

type AuthHandler struct {
	svc     port.AuthService
	tokens  port.TokenIssuer
	logger  *logger.Logger
	metrics *telemetry.AppMetrics
}

func NewAuthHandler(svc port.AuthService, tokens port.TokenIssuer, logger *logger.Logger, metrics *telemetry.AppMetrics) *AuthHandler {
	return &AuthHandler{
		svc:     svc,
		tokens:  tokens,
		logger:  logger,
		metrics: metrics,
	}
}

func (a *AuthHandler) Register(c *gin.Context) {
	ctx := c.Request.Context()

	params, err := util.BindJSON[request.RegisterRequest](c)

	if err != nil {
		SendBadRequestError(c, "body", MessageInvalidBody)
		return
	}

	params.Name = strings.TrimSpace(params.Name)
	params.Email = strings.TrimSpace(params.Email)

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	user, err := a.svc.Register(ctx, domain.RegisterCommand{
		Name:     params.Name,
		Email:    params.Email,
		Password: params.Password,
	})
	a.record(c, "register", err)

	if err != nil {
		a.logger.Warn(ctx, "Registration failed", zap.Error(err))
		SendDomainError(c, err, MessageInternal)
		return
	}

	SendSuccess(c, http.StatusCreated, response.UserEnvelope{
		Success: true,
		Message: MessageUserRegistered,
		User:    response.NewUserResponse(user),
	})
}

func (a *AuthHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()

	params, err := util.BindJSON[request.LoginRequest](c)

	if err != nil {
		SendBadRequestError(c, "body", MessageInvalidBody)
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	user, err := a.svc.Authenticate(ctx, params.Email, params.Password)
	a.record(c, "login", err)

	if err != nil {
		a.logger.Warn(ctx, "Login failed", zap.Error(err))
		SendDomainError(c, err, MessageInternal)
		return
	}

	token, err := a.tokens.CreateToken(user.ID)

	if err != nil {
		a.logger.Error(ctx, "Failed to sign token", zap.Error(err), zap.String("user_id", user.ID))
		SendInternalError(c, MessageInternal)
		return
	}

	SendSuccess(c, http.StatusOK, response.AuthResponse{
		Success: true,
		Token:   token,
		User:    response.NewUserResponse(user),
	})
}

func (a *AuthHandler) Me(c *gin.Context) {
	user, err := a.svc.CurrentUser(c.Request.Context(), middleware.CurrentUserID(c))

	if err != nil {
		SendDomainError(c, err, MessageInternal)
		return
	}

	SendSuccess(c, http.StatusOK, response.UserEnvelope{
		Success: true,
		User:    response.NewUserResponse(user),
	})
}

func (a *AuthHandler) record(c *gin.Context, operation string, err error) {
	if a.metrics != nil {
		a.metrics.RecordUserOperation(c.Request.Context(), operation, err)
	}
}
