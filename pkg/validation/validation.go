// Package validation checks request and content structs against their
// validate tags and renders the first failure the way the API reports it.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	apperrors "dashboard-backend/internal/errors"

	"github.com/go-playground/validator/v10"
)

// Validator wraps a configured validator.Validate. It is safe for
// concurrent use.
type Validator struct {
	validate *validator.Validate
}

// New creates a validator that names fields by their json tag.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

// Struct validates s and returns the first failing field as a validation
// error: "Missing required field `x`" for required tags, "Invalid field `x`"
// for everything else.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apperrors.Validation(apperrors.CodeValidationFailed, "Invalid request").
			WithCause(err).
			Build()
	}
	return fieldError(fieldErrs[0])
}

func fieldError(fe validator.FieldError) error {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return apperrors.MissingField(field)
	case "oneof":
		return apperrors.Validation(apperrors.CodeInvalidFormat,
			fmt.Sprintf("Invalid field `%s`: must be one of %s", field, fe.Param())).
			WithResource(field).
			Build()
	default:
		return apperrors.Validation(apperrors.CodeInvalidFormat,
			fmt.Sprintf("Invalid field `%s`", field)).
			WithResource(field).
			Build()
	}
}
