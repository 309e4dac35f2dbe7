package validation

import (
	"strings"
	"testing"

	. "github.com/onsi/gomega"

	"taskboard/internal/core/model/request"
	"taskboard/internal/core/model/response"
)

func TestFormatValidationErrors(t *testing.T) {
	RegisterTestingT(t)

	t.Run("missing title", func(t *testing.T) {
		err := Validator.Struct(request.CreateTaskRequest{})

		Expect(FormatValidationErrors(err)).To(ConsistOf(response.ValidationError{
			Field:   "title",
			Message: "Title is required",
		}))
	})

	t.Run("long title", func(t *testing.T) {
		err := Validator.Struct(request.CreateTaskRequest{Title: strings.Repeat("x", 256)})

		Expect(FormatValidationErrors(err)).To(ConsistOf(response.ValidationError{
			Field:   "title",
			Message: "Title must be at most 255 characters",
		}))
	})

	t.Run("register", func(t *testing.T) {
		err := Validator.Struct(request.RegisterRequest{Name: "Jane", Email: "nope", Password: "123"})

		Expect(FormatValidationErrors(err)).To(ConsistOf(
			response.ValidationError{Field: "email", Message: "Email must be a valid email"},
			response.ValidationError{Field: "password", Message: "Password must be at least 6 characters"},
		))
	})

	t.Run("valid input", func(t *testing.T) {
		err := Validator.Struct(request.LoginRequest{Email: "jane@example.com", Password: "secret"})

		Expect(err).To(BeNil())
		Expect(FormatValidationErrors(err)).To(BeEmpty())
	})
}
