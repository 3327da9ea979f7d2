// Package validation checks form input and reports problems per field.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON name so that the keys match the request body
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// Result is the outcome of validating a form.
type Result struct {
	IsValid bool              `json:"isValid"`
	Errors  map[string]string `json:"errors"`
}

// Err converts an invalid Result into a ValidationError and returns nil
// for a valid one.
func (r Result) Err() error {
	if r.IsValid {
		return nil
	}

	return ValidationError{Fields: r.Errors}
}

// ValidationError is returned for malformed input that was rejected before
// touching the store.
type ValidationError struct {
	Fields map[string]string
}

func (e ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, e.Fields[k])
	}

	return strings.Join(parts, "; ")
}

// NewError returns a ValidationError for a single field.
func NewError(field, message string) ValidationError {
	return ValidationError{Fields: map[string]string{field: message}}
}

// IsValidationError reports whether err is or wraps a ValidationError.
func IsValidationError(err error) bool {
	var v ValidationError
	return errors.As(err, &v)
}

// messages maps "field.tag" to the message shown to users.
var messages = map[string]string{
	"email.required":             "Email is required",
	"email.email":                "Please enter a valid email address",
	"password.required":          "Password is required",
	"password.min":               "Password must be at least 6 characters",
	"first_name.required":        "First name is required",
	"confirmPassword.eqfield":    "Passwords don't match",
	"displayName.max":            "Display name must be at most 100 characters",
	"name.required":              "Name is required",
	"description.max":            "Description must be at most 500 characters",
	"expenseCategoryId.required": "Category is required",
}

// Struct validates any struct tagged for go-playground/validator and
// converts failures into a Result.
func Struct(s any) Result {
	err := validate.Struct(s)
	if err == nil {
		return Result{IsValid: true, Errors: map[string]string{}}
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return Result{IsValid: false, Errors: map[string]string{"form": "Invalid form data"}}
	}

	result := Result{IsValid: false, Errors: map[string]string{}}
	for _, fe := range fieldErrors {
		// Keep the first problem per field
		if _, ok := result.Errors[fe.Field()]; ok {
			continue
		}
		result.Errors[fe.Field()] = message(fe)
	}

	return result
}

func message(fe validator.FieldError) string {
	if m, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return m
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	}

	return fmt.Sprintf("%s is not valid", fe.Field())
}
