package validation

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/skillsenselab/filevault/errors"
)

var (
	structValidator *validator.Validate
	initOnce        sync.Once
)

// getValidator builds the shared validator. Field names in messages come
// from the json tag so they match the configuration file keys.
func getValidator() *validator.Validate {
	initOnce.Do(func() {
		structValidator = validator.New(validator.WithRequiredStructEnabled())
		structValidator.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return toSnakeCase(fld.Name)
			}
			return name
		})
	})
	return structValidator
}

// Validate checks a struct against its `validate` tags and reports every
// failing field in one AppError. Configuration is validated this way once
// at load time.
func Validate(s any) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.Validation("validation failed")
	}

	fields := make([]FieldError, 0, len(fieldErrs))
	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		name := toSnakeCase(fe.Field())
		message := tagMessage(fe)
		fields = append(fields, FieldError{Field: name, Message: message})
		messages = append(messages, name+": "+message)
	}

	appErr := errors.Validation(strings.Join(messages, "; "))
	appErr.Details = map[string]any{"fields": fields}
	return appErr
}

// tagMessage renders the handful of tags the configuration uses.
func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	default:
		return "is invalid"
	}
}

// toSnakeCase converts a Go field name to its configuration-key spelling.
func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteRune('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
