package v1

import (
	"errors"
	"net/http"

	"github.com/budgetbook/backend/internal/auth"
	"github.com/budgetbook/backend/internal/i18n"
	"github.com/budgetbook/backend/internal/models"
	"github.com/budgetbook/backend/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type httpError struct {
	Error  string            `json:"error" example:"the id in the path is not a valid UUID"` // The error
	Fields map[string]string `json:"fields,omitempty" example:"email:Email is required"`     // Problems per field for invalid input
}

var conflicts = []error{
	models.ErrUserEmailNotUnique,
	models.ErrCategoryNameNotUnique,
	models.ErrSubcategoryNameNotUnique,
	models.ErrTagCategoryNameNotUnique,
	models.ErrTagNameNotUnique,
	models.ErrAdminExists,
}

// status returns the appropriate HTTP status for an error
func status(err error) int {
	var authErr *auth.AuthError
	if errors.As(err, &authErr) {
		return authErr.Status
	}

	if validation.IsValidationError(err) {
		return http.StatusBadRequest
	}

	if errors.Is(err, models.ErrGeneral) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, models.ErrNoUser) {
		return http.StatusUnauthorized
	}

	if errors.Is(err, auth.ErrForbidden) {
		return http.StatusForbidden
	}

	if errors.Is(err, models.ErrResourceNotFound) {
		return http.StatusNotFound
	}

	for _, conflict := range conflicts {
		if errors.Is(err, conflict) {
			return http.StatusConflict
		}
	}

	// Failed store operations are server errors unless the cause says
	// otherwise
	var opErr *models.OperationError
	if errors.As(err, &opErr) && !models.IsUserError(opErr.Err) {
		return http.StatusInternalServerError
	}

	return http.StatusBadRequest
}

// message returns the localized message for err and, for validation
// errors, the localized problems per field.
func message(c *gin.Context, err error) (string, map[string]string) {
	tag := locale(c)

	var verr validation.ValidationError
	if errors.As(err, &verr) {
		fields := i18n.TranslateFields(tag, verr.Fields)
		return validation.ValidationError{Fields: fields}.Error(), fields
	}

	var authErr *auth.AuthError
	if errors.As(err, &authErr) {
		return i18n.Translate(tag, auth.FormatError(err)), nil
	}

	var opErr *models.OperationError
	if errors.As(err, &opErr) {
		return i18n.Translate(tag, opErr.Op) + ": " + i18n.Translate(tag, opErr.Err.Error()), nil
	}

	return i18n.Translate(tag, err.Error()), nil
}

// abort writes the error response for err and stops the handler chain.
func abort(c *gin.Context, err error) {
	s := status(err)
	msg, fields := message(c, err)

	if s >= http.StatusInternalServerError {
		log.Ctx(c.Request.Context()).Error().Err(err).Int("status", s).Msg("request failed")
	}

	c.AbortWithStatusJSON(s, httpError{
		Error:  msg,
		Fields: fields,
	})
}
