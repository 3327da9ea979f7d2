package auth

import (
	"context"

	"github.com/budgetbook/backend/internal/models"
	"github.com/budgetbook/backend/internal/validation"
	"github.com/rs/zerolog/log"
)

// Gateway validates input for the identity provider and logs its
// failures. All methods return errors instead of panicking.
type Gateway struct {
	provider Provider
}

// NewGateway returns a gateway for the provider.
func NewGateway(p Provider) *Gateway {
	return &Gateway{provider: p}
}

func logFailure(ctx context.Context, op string, err error) {
	log.Ctx(ctx).Warn().Err(err).Str("op", op).Msg("authentication request failed")
}

// SignUp creates a user and its profile from the registration form.
func (g *Gateway) SignUp(ctx context.Context, form validation.RegistrationForm) (models.User, error) {
	if err := validation.ValidateRegistration(form).Err(); err != nil {
		return models.User{}, err
	}

	user, err := g.provider.SignUp(ctx, SignUpData{
		Email:     validation.SanitizeEmail(form.Email),
		Password:  form.Password,
		FirstName: form.FirstName,
		LastName:  form.LastName,
	})
	if err != nil {
		logFailure(ctx, "sign-up", err)
		return models.User{}, err
	}

	log.Ctx(ctx).Info().Str("user", user.ID.String()).Msg("user signed up")
	return user, nil
}

// SignIn starts a session for valid credentials.
func (g *Gateway) SignIn(ctx context.Context, form validation.LoginForm) (Session, error) {
	if err := validation.ValidateLogin(form).Err(); err != nil {
		return Session{}, err
	}

	session, err := g.provider.SignInWithPassword(ctx, form.Email, form.Password)
	if err != nil {
		logFailure(ctx, "sign-in", err)
		return Session{}, err
	}

	return session, nil
}

// ResetPassword sends a recovery link pointing to redirectTo.
func (g *Gateway) ResetPassword(ctx context.Context, email, redirectTo string) error {
	err := g.provider.ResetPasswordForEmail(ctx, email, redirectTo)
	if err != nil {
		logFailure(ctx, "reset-password", err)
	}
	return err
}

// UpdatePassword sets a new password for the holder of the token.
func (g *Gateway) UpdatePassword(ctx context.Context, token string, form validation.PasswordForm) (models.User, error) {
	if err := validation.ValidatePassword(form).Err(); err != nil {
		return models.User{}, err
	}

	user, err := g.provider.UpdateUser(ctx, token, form.Password)
	if err != nil {
		logFailure(ctx, "update-password", err)
		return models.User{}, err
	}

	return user, nil
}

// SignOut ends the session.
func (g *Gateway) SignOut(ctx context.Context, token string) error {
	err := g.provider.SignOut(ctx, token)
	if err != nil {
		logFailure(ctx, "sign-out", err)
	}
	return err
}

// CheckSession returns the session for the token, nil if there is none.
func (g *Gateway) CheckSession(ctx context.Context, token string) (*Session, error) {
	session, err := g.provider.GetSession(ctx, token)
	if err != nil {
		logFailure(ctx, "session", err)
		return nil, err
	}
	return session, nil
}
