package models

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

var (
	ErrGeneral           = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound  = errors.New("there is no")
	ErrReferenceNotFound = errors.New("a resource ID you specified does not identify an existing resource")
	ErrNoUser            = errors.New("an authenticated user is required")

	ErrUserEmailNotUnique       = errors.New("a user with this email address already exists")
	ErrCategoryNameNotUnique    = errors.New("the category name must be unique")
	ErrSubcategoryNameNotUnique = errors.New("the subcategory name must be unique for the category")
	ErrTagCategoryNameNotUnique = errors.New("the tag category name must be unique")
	ErrTagNameNotUnique         = errors.New("the tag name must be unique for the tag category")
	ErrAdminExists              = errors.New("the user already is an administrator")

	ErrSubcategoryMismatch = errors.New("the subcategory does not belong to the category")
	ErrInvalidAdminRole    = errors.New("the role must be one of admin, super_admin")
)

// userErrors are the errors whose message can be shown to users as is.
var userErrors = []error{
	ErrGeneral,
	ErrResourceNotFound,
	ErrReferenceNotFound,
	ErrNoUser,
	ErrUserEmailNotUnique,
	ErrCategoryNameNotUnique,
	ErrSubcategoryNameNotUnique,
	ErrTagCategoryNameNotUnique,
	ErrTagNameNotUnique,
	ErrAdminExists,
	ErrSubcategoryMismatch,
	ErrInvalidAdminRole,
}

// IsUserError reports whether err is or wraps one of the errors of this
// package.
func IsUserError(err error) bool {
	for _, known := range userErrors {
		if errors.Is(err, known) {
			return true
		}
	}
	return false
}

// OperationError is a store failure annotated with the operation that
// was attempted, e.g. "failed to load budgets".
type OperationError struct {
	Op  string
	Err error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// WrapOperation annotates err with op. It returns nil for a nil error.
//
// Errors that are not errors of this package, e.g. a failed BEGIN on a
// closed database, never reach gorm's callbacks. They are logged and
// replaced with ErrGeneral.
func WrapOperation(op string, err error) error {
	if err == nil {
		return nil
	}

	if !IsUserError(err) {
		log.Error().Err(err).Str("operation", op).Msgf("%T", err)
		err = ErrGeneral
	}

	return &OperationError{Op: op, Err: err}
}
