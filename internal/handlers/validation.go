package handlers

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/gutcheck-app/gutcheck/backend/internal/apierror"
	"github.com/gutcheck-app/gutcheck/backend/internal/models"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("volume", func(fl validator.FieldLevel) bool {
		return models.VolumeEstimate(fl.Field().String()).Valid()
	})

	return v
}

// validateRequest runs the struct tags on req and converts every failure
// into a field error. It returns nil when req is valid.
func validateRequest(req interface{}) []apierror.FieldError {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []apierror.FieldError{{Field: "body", Message: err.Error(), Code: "invalid"}}
	}

	fieldErrors := make([]apierror.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fieldErrors = append(fieldErrors, toFieldError(fe))
	}
	return fieldErrors
}

func toFieldError(fe validator.FieldError) apierror.FieldError {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return apierror.FieldError{Field: field, Message: "is required", Code: "required"}
	case "min", "gte":
		if fe.Kind() == reflect.Slice {
			return apierror.FieldError{Field: field, Message: "must have at least " + fe.Param() + " items", Code: "too_short"}
		}
		if fe.Kind() == reflect.String {
			return apierror.FieldError{Field: field, Message: "must be at least " + fe.Param() + " characters", Code: "too_short"}
		}
		return apierror.FieldError{Field: field, Message: "must be at least " + fe.Param(), Code: "out_of_range"}
	case "max", "lte":
		if fe.Kind() == reflect.Slice {
			return apierror.FieldError{Field: field, Message: "must have at most " + fe.Param() + " items", Code: "too_long"}
		}
		if fe.Kind() == reflect.String {
			return apierror.FieldError{Field: field, Message: "must be at most " + fe.Param() + " characters", Code: "too_long"}
		}
		return apierror.FieldError{Field: field, Message: "must be at most " + fe.Param(), Code: "out_of_range"}
	case "volume":
		return apierror.FieldError{Field: field, Message: "must be one of low, medium, high", Code: "invalid_value"}
	case "uuid":
		return apierror.FieldError{Field: field, Message: "must be a valid UUID", Code: "invalid_format"}
	case "ne":
		return apierror.FieldError{Field: field, Message: "'" + fe.Param() + "' is reserved", Code: "invalid_value"}
	}
	return apierror.FieldError{Field: field, Message: "failed " + fe.Tag() + " validation", Code: "invalid"}
}
