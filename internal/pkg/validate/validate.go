package validate

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	val "github.com/go-playground/validator/v10"

	"github.com/nekogravitycat/estify-backend/internal/pkg/apperror"
)

var (
	validate  *val.Validate
	alphaOnly = regexp.MustCompile(`^[A-Za-z\s]+$`)

	messages = map[string]string{
		"required":   "{field} is required",
		"gte":        "{field} must be greater than or equal to {param}",
		"lte":        "{field} must be less than or equal to {param}",
		"oneof":      "{field} must be one of {param}",
		"min":        "{field} must be at least {param} characters",
		"max":        "{field} must be at most {param} characters",
		"len":        "{field} must be exactly {param} characters",
		"numeric":    "{field} must contain digits only",
		"email":      "{field} must be a valid email address",
		"alphaspace": "{field} must contain letters only",
		"notblank":   "{field} must not be blank",
	}
)

func init() {
	validate = val.New(val.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	if err := validate.RegisterValidation("alphaspace", func(fl val.FieldLevel) bool {
		return alphaOnly.MatchString(strings.TrimSpace(fl.Field().String()))
	}); err != nil {
		panic(err)
	}

	if err := validate.RegisterValidation("notblank", func(fl val.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}); err != nil {
		panic(err)
	}
}

// Struct validates data and returns an apperror validation error naming
// the first failing field.
func Struct(data any) error {
	if err := validate.Struct(data); err != nil {
		return apperror.Validation(message(err))
	}
	return nil
}

// Var validates a single value against tag.
func Var(field any, tag string) error {
	if err := validate.Var(field, tag); err != nil {
		return apperror.Validation(message(err))
	}
	return nil
}

func message(err error) string {
	var valErrors val.ValidationErrors
	if errors.As(err, &valErrors) {
		for _, valErr := range valErrors {
			msg := messages[valErr.Tag()]
			if msg == "" {
				continue
			}
			msg = strings.ReplaceAll(msg, "{field}", valErr.Field())
			msg = strings.ReplaceAll(msg, "{param}", valErr.Param())
			return msg
		}
		return valErrors.Error()
	}
	return err.Error()
}
