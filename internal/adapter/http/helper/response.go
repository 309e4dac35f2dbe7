package helper

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard/internal/adapter/http/validation"
	"taskboard/internal/core/domain"
	"taskboard/internal/core/model/response"
)

const (
	MessageTitleRequired      = "Title is required"
	MessageInvalidStatus      = "Invalid status. Must be Pending or Done"
	MessageTaskNotFound       = "Task not found"
	MessageTaskDeleted        = "Task deleted"
	MessageUserExists         = "User already exists"
	MessageUserNotFound       = "User not found"
	MessageUserRegistered     = "User registered successfully"
	MessageInvalidCredentials = "Invalid email or password"
	MessageNoToken            = "No token provided"
	MessageInvalidToken       = "Invalid token"
	MessageInvalidBody        = "Invalid request body"
	MessageRouteNotFound      = "Route not found"
	MessageInternal           = "Internal server error"
)

func SendSuccess(c *gin.Context, statusCode int, data any) {
	c.JSON(statusCode, data)
}

func SendMessage(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, response.MessageResponse{
		Success: true,
		Message: message,
	})
}

func SendError(c *gin.Context, statusCode int, message string, errs ...response.ValidationError) {
	c.AbortWithStatusJSON(statusCode, response.ErrorResponse{
		Success: false,
		Message: message,
		Errors:  errs,
	})
}

// SendValidationError reports validator errors. The first field message
// becomes the envelope message.
func SendValidationError(c *gin.Context, err error) {
	errs := validation.FormatValidationErrors(err)

	message := MessageInvalidBody
	if len(errs) > 0 {
		message = errs[0].Message
	}

	SendError(c, http.StatusBadRequest, message, errs...)
}

func SendBadRequestError(c *gin.Context, field string, message string) {
	SendError(c, http.StatusBadRequest, message, response.ValidationError{
		Field:   field,
		Message: message,
	})
}

func SendUnauthorizedError(c *gin.Context, message string) {
	SendError(c, http.StatusUnauthorized, message)
}

func SendNotFoundError(c *gin.Context, message string) {
	SendError(c, http.StatusNotFound, message)
}

func SendInternalError(c *gin.Context, message string) {
	SendError(c, http.StatusInternalServerError, message)
}

// SendDomainError maps core errors to the envelope. Unknown errors become a
// 500 with the fallback message so internals never reach the client.
func SendDomainError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrTaskTitleRequired):
		SendBadRequestError(c, "title", MessageTitleRequired)
	case errors.Is(err, domain.ErrInvalidTaskStatus):
		SendBadRequestError(c, "status", MessageInvalidStatus)
	case errors.Is(err, domain.ErrValidation):
		SendError(c, http.StatusBadRequest, capitalize(err.Error()))
	case errors.Is(err, domain.ErrTaskNotFound):
		SendNotFoundError(c, MessageTaskNotFound)
	case errors.Is(err, domain.ErrUserNotFound):
		SendNotFoundError(c, MessageUserNotFound)
	case errors.Is(err, domain.ErrUserAlreadyExists):
		SendBadRequestError(c, "email", MessageUserExists)
	case errors.Is(err, domain.ErrInvalidCredentials):
		SendUnauthorizedError(c, MessageInvalidCredentials)
	case errors.Is(err, domain.ErrInvalidToken):
		SendUnauthorizedError(c, MessageInvalidToken)
	default:
		SendInternalError(c, fallback)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}

	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}

	return s
}
