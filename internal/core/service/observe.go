package service

import (
	"context"
	"errors"

	"taskboard/internal/core/domain"
	"taskboard/internal/core/port"
)

// finishSpan closes a service span. Caller mistakes only mark the span as
// failed; anything else is also reported through RecordError.
func finishSpan(ctx context.Context, probe port.Telemetry, span port.Span, operation string, err error, metadata map[string]any) {
	defer span.End()

	if err == nil {
		span.SetStatus("ok", "")
		return
	}

	span.RecordError(err)
	span.SetStatus("error", err.Error())

	if !isClientError(err) {
		probe.RecordError(ctx, operation, err, metadata)
	}
}

func isClientError(err error) bool {
	return domain.IsValidationError(err) ||
		errors.Is(err, domain.ErrTaskNotFound) ||
		errors.Is(err, domain.ErrUserNotFound) ||
		errors.Is(err, domain.ErrUserAlreadyExists) ||
		errors.Is(err, domain.ErrInvalidCredentials)
}
