package businessflow

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// NewValidator returns a validator that reports json field names and understands notblank
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// notblank rejects whitespace-only strings, which required lets through
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return v
}

// validateRequest runs struct validation and converts failures into a ValidationError
func validateRequest(v *validator.Validate, resource string, req any) error {
	err := v.Struct(req)
	if err == nil {
		return nil
	}

	var fields []FieldError
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields = make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, FieldError{Field: fe.Field(), Message: validationMessage(fe)})
		}
	} else {
		fields = []FieldError{{Field: "body", Message: "request body is required"}}
	}

	return NewBusinessError("VALIDATION_ERROR", "Validation failed", &ValidationError{
		Resource: resource,
		Fields:   fields,
	})
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "notblank":
		return fe.Field() + " must not be blank"
	case "email":
		return "Invalid email format"
	case "url":
		return fe.Field() + " must be a valid URL"
	case "uuid", "uuid4":
		return fe.Field() + " must be a valid UUID"
	case "max":
		return fe.Field() + " must be at most " + fe.Param() + " characters"
	case "len":
		return fe.Field() + " must be exactly " + fe.Param() + " characters"
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	case "numeric":
		return fe.Field() + " must contain only numbers"
	case "datetime":
		return fe.Field() + " must be a date in format " + fe.Param()
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", fe.Field(), fe.Param())
	default:
		return fe.Field() + " is invalid"
	}
}
