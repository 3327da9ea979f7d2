package auth

import (
	"errors"
	"net/http"
)

// Messages reported by the identity provider.
const (
	MsgInvalidCredentials = "Invalid login credentials"
	MsgAlreadyRegistered  = "User already registered"
	MsgWeakPassword       = "Password should be at least 6 characters"
	MsgInvalidEmail       = "Unable to validate email address: invalid format"
	MsgSamePassword       = "New password should be different from the old password."
	MsgInvalidSession     = "Invalid or expired session"
)

// ErrForbidden is returned when a user lacks the rights for an operation.
var ErrForbidden = errors.New("only super administrators can manage administrators")

// AuthError is a failure reported by the identity provider.
type AuthError struct {
	Status  int
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	return e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

func newAuthError(status int, message string) *AuthError {
	return &AuthError{Status: status, Message: message}
}

// unavailable wraps an internal failure of the provider.
func unavailable(err error) *AuthError {
	return &AuthError{Status: http.StatusInternalServerError, Message: err.Error(), Err: err}
}

var messageTable = map[string]string{
	MsgInvalidCredentials: "Invalid email or password",
	MsgAlreadyRegistered:  "Email already registered",
	MsgWeakPassword:       "Password must be at least 6 characters",
}

var statusTable = map[int]string{
	http.StatusBadRequest:          "Invalid email or password format",
	http.StatusUnprocessableEntity: "Email already registered",
	http.StatusInternalServerError: "Service temporarily unavailable. Please try again later.",
}

// FormatError returns the message shown to users for err.
//
// Known provider messages are looked up first, then the status of an
// AuthError. Anything else is returned unmodified.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	if m, ok := messageTable[err.Error()]; ok {
		return m
	}

	var authErr *AuthError
	if errors.As(err, &authErr) {
		if m, ok := messageTable[authErr.Message]; ok {
			return m
		}

		if m, ok := statusTable[authErr.Status]; ok {
			return m
		}

		return authErr.Message
	}

	return err.Error()
}
