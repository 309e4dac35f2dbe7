package validation

import (
	"errors"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"taskboard/internal/core/model/response"
)

var (
	Validator  *validator.Validate
	Translator ut.Translator
)

func init() {
	Validator = validator.New(validator.WithRequiredStructEnabled())

	english := en.New()
	uni := ut.New(english, english)

	var found bool
	Translator, found = uni.GetTranslator("en")

	if !found {
		panic("translator en not found")
	}

	if err := en_translations.RegisterDefaultTranslations(Validator, Translator); err != nil {
		panic(err)
	}

	addCustomTranslations()
}

func addCustomTranslations() {
	register := func(tag string, text string, params func(fe validator.FieldError) []string) {
		err := Validator.RegisterTranslation(tag, Translator, func(ut ut.Translator) error {
			return ut.Add(tag, text, true)
		}, func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T(tag, params(fe)...)
			return t
		})

		if err != nil {
			panic(err)
		}
	}

	fieldOnly := func(fe validator.FieldError) []string {
		return []string{getFieldName(fe.Field())}
	}

	fieldAndParam := func(fe validator.FieldError) []string {
		return []string{getFieldName(fe.Field()), fe.Param()}
	}

	register("required", "{0} is required", fieldOnly)
	register("email", "{0} must be a valid email", fieldOnly)
	register("min", "{0} must be at least {1} characters", fieldAndParam)
	register("max", "{0} must be at most {1} characters", fieldAndParam)
}

func getFieldName(field string) string {
	fieldNames := map[string]string{
		"Title":       "Title",
		"Description": "Description",
		"Name":        "Name",
		"Email":       "Email",
		"Password":    "Password",
		"Status":      "Status",
	}

	if name, exists := fieldNames[field]; exists {
		return name
	}

	return field
}

func FormatValidationErrors(err error) []response.ValidationError {
	var errs []response.ValidationError
	var validationErrors validator.ValidationErrors

	if errors.As(err, &validationErrors) {
		for _, fieldError := range validationErrors {
			errs = append(errs, response.ValidationError{
				Field:   strings.ToLower(fieldError.Field()),
				Message: fieldError.Translate(Translator),
			})
		}
	}

	return errs
}
