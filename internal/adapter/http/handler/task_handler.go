package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
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
	. "taskboard/pkg/tracing"
)

const (
	MessageFetchFailed  = "Error fetching tasks"
	MessageCreateFailed = "Error creating task"
	MessageUpdateFailed = "Error updating task"
	MessageDeleteFailed = "Error deleting task"
)

type TaskHandler struct {
	svc     port.TaskService
	logger  *logger.Logger
	metrics *telemetry.AppMetrics
}

func NewTaskHandler(svc port.TaskService, logger *logger.Logger, metrics *telemetry.AppMetrics) *TaskHandler {
	return &TaskHandler{
		svc:     svc,
		logger:  logger,
		metrics: metrics,
	}
}

func (h *TaskHandler) List(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	ctx, span := CreateChildSpan(c.Request.Context(), "handler.task.List", []attribute.KeyValue{
		attribute.String("handler.operation", "List"),
		attribute.String("user.id", userID),
	})
	defer span.End()

	tasks, err := h.svc.List(ctx, userID)
	h.record(c, "list", err)

	if err != nil {
		AddSpanError(span, err)
		h.logger.Error(ctx, "Failed to list tasks", zap.Error(err), zap.String("user_id", userID))

		SendDomainError(c, err, MessageFetchFailed)
		return
	}

	span.SetAttributes(attribute.Int("task.count", len(tasks)))

	SendSuccess(c, http.StatusOK, response.NewTaskListResponse(tasks))
}

func (h *TaskHandler) Create(c *gin.Context) {
	userID := middleware.CurrentUserID(c)

	ctx, span := CreateChildSpan(c.Request.Context(), "handler.task.Create", []attribute.KeyValue{
		attribute.String("handler.operation", "Create"),
		attribute.String("user.id", userID),
	})
	defer span.End()

	params, err := util.BindJSON[request.CreateTaskRequest](c)

	if err != nil {
		SendBadRequestError(c, "body", MessageInvalidBody)
		return
	}

	params.Title = strings.TrimSpace(params.Title)

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	task, err := h.svc.Create(ctx, domain.CreateTaskCommand{
		Title:       params.Title,
		Description: params.Description,
		UserID:      userID,
	})
	h.record(c, "create", err)

	if err != nil {
		AddSpanError(span, err)
		h.logger.Error(ctx, "Failed to create task", zap.Error(err), zap.String("user_id", userID))

		SendDomainError(c, err, MessageCreateFailed)
		return
	}

	span.SetAttributes(attribute.String("task.id", task.ID))

	SendSuccess(c, http.StatusCreated, response.TaskEnvelope{
		Success: true,
		Task:    response.NewTaskResponse(task),
	})
}

func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	id := c.Param("id")

	ctx, span := CreateChildSpan(c.Request.Context(), "handler.task.UpdateStatus", []attribute.KeyValue{
		attribute.String("handler.operation", "UpdateStatus"),
		attribute.String("user.id", userID),
		attribute.String("task.id", id),
	})
	defer span.End()

	params, err := util.BindJSON[request.UpdateTaskRequest](c)

	if err != nil {
		SendBadRequestError(c, "body", MessageInvalidBody)
		return
	}

	task, err := h.svc.UpdateStatus(ctx, userID, id, params.Status)
	h.record(c, "update", err)

	if err != nil {
		AddSpanError(span, err)
		h.logger.Warn(ctx, "Failed to update task", zap.Error(err), zap.String("task_id", id))

		SendDomainError(c, err, MessageUpdateFailed)
		return
	}

	SendSuccess(c, http.StatusOK, response.TaskEnvelope{
		Success: true,
		Task:    response.NewTaskResponse(task),
	})
}

func (h *TaskHandler) Toggle(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	id := c.Param("id")

	ctx, span := CreateChildSpan(c.Request.Context(), "handler.task.Toggle", []attribute.KeyValue{
		attribute.String("handler.operation", "Toggle"),
		attribute.String("user.id", userID),
		attribute.String("task.id", id),
	})
	defer span.End()

	task, err := h.svc.Toggle(ctx, userID, id)
	h.record(c, "toggle", err)

	if err != nil {
		AddSpanError(span, err)
		h.logger.Warn(ctx, "Failed to toggle task", zap.Error(err), zap.String("task_id", id))

		SendDomainError(c, err, MessageUpdateFailed)
		return
	}

	span.SetAttributes(attribute.String("task.status", string(task.Status)))

	SendSuccess(c, http.StatusOK, response.TaskEnvelope{
		Success: true,
		Task:    response.NewTaskResponse(task),
	})
}

func (h *TaskHandler) Delete(c *gin.Context) {
	userID := middleware.CurrentUserID(c)
	id := c.Param("id")

	ctx, span := CreateChildSpan(c.Request.Context(), "handler.task.Delete", []attribute.KeyValue{
		attribute.String("handler.operation", "Delete"),
		attribute.String("user.id", userID),
		attribute.String("task.id", id),
	})
	defer span.End()

	err := h.svc.Delete(ctx, userID, id)
	h.record(c, "delete", err)

	if err != nil {
		AddSpanError(span, err)
		h.logger.Warn(ctx, "Failed to delete task", zap.Error(err), zap.String("task_id", id))

		SendDomainError(c, err, MessageDeleteFailed)
		return
	}

	SendMessage(c, http.StatusOK, MessageTaskDeleted)
}

func (h *TaskHandler) record(c *gin.Context, operation string, err error) {
	if h.metrics != nil {
		h.metrics.RecordTaskOperation(c.Request.Context(), operation, err)
	}
}
