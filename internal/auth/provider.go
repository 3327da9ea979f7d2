// Package auth signs users up and in and manages their sessions.
//
// The Provider interface is the identity provider. LocalProvider stores
// users in the database and issues signed JWTs. The Gateway validates
// user input, calls the provider and logs failures.
package auth

import (
	"context"
	"time"

	"github.com/budgetbook/backend/internal/models"
)

// Session is an authenticated identity.
type Session struct {
	AccessToken string      `json:"accessToken" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."` // Bearer token for the Authorization header
	TokenType   string      `json:"tokenType" example:"bearer"`                                    // Always "bearer"
	ExpiresAt   time.Time   `json:"expiresAt" example:"2024-03-15T15:30:00Z"`                      // Time the token expires
	User        models.User `json:"user"`                                                          // The signed in user
}

// SignUpData is the sanitized input for creating a user.
type SignUpData struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Provider is an identity provider.
type Provider interface {
	// SignUp creates a user and its profile.
	SignUp(ctx context.Context, data SignUpData) (models.User, error)

	// SignInWithPassword checks the credentials and starts a session.
	SignInWithPassword(ctx context.Context, email, password string) (Session, error)

	// ResetPasswordForEmail sends a password recovery link to the email
	// address if a user with it exists.
	ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error

	// UpdateUser sets a new password for the user identified by token,
	// which is either a session token or a recovery token.
	UpdateUser(ctx context.Context, token, password string) (models.User, error)

	// SignOut ends the session.
	SignOut(ctx context.Context, token string) error

	// GetSession returns the session for the token. An empty token
	// yields a nil session and no error.
	GetSession(ctx context.Context, token string) (*Session, error)
}
