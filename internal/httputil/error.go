package httputil

import (
	"errors"

	"github.com/gin-gonic/gin"
)

// Errors for requests that cannot be bound.
var (
	ErrInvalidBody      = errors.New("the request body is not valid JSON for this endpoint")
	ErrRequestBodyEmpty = errors.New("the request body must not be empty")
	ErrInvalidUUID      = errors.New("the id in the path is not a valid UUID")
)

// HTTPError is the body of responses that abort a request outside of a
// controller, e.g. for unknown paths.
type HTTPError struct {
	Error string `json:"error" example:"there is no endpoint at this path"`
}

// NewError aborts the request with status and message.
func NewError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, HTTPError{Error: message})
}
