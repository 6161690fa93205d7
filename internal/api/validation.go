package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/alexivanou/weather-requests-api/internal/apperr"
	"github.com/alexivanou/weather-requests-api/internal/model"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Dates validate as their string form so that required rejects the zero day.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(model.Date); ok && !d.IsZero() {
			return d.String()
		}
		return nil
	}, model.Date{})
	return v
}

// validateBody runs struct validation and reports the first failing field.
func validateBody(body interface{}) error {
	err := validate.Struct(body)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return apperr.Wrap(apperr.InvalidInput, err, "Validation failed", err.Error())
	}
	return apperr.Wrap(apperr.InvalidInput, err, "Validation failed", fieldMessage(errs[0]))
}

func fieldMessage(fe validator.FieldError) string {
	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s%s", fe.Field(), fe.Param(), unit)
	case "max":
		return fmt.Sprintf("%s must be at most %s%s", fe.Field(), fe.Param(), unit)
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
