package domain

import "errors"

var (
	ErrValidation        = errors.New("validation failed")
	ErrTaskTitleRequired = errors.New("title is required")
	ErrInvalidTaskStatus = errors.New("invalid status, must be Pending or Done")
	ErrTaskNotFound      = errors.New("task not found")

	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
)

// IsValidationError reports whether err is a client input error.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrTaskTitleRequired) ||
		errors.Is(err, ErrInvalidTaskStatus)
}
