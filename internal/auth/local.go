package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/budgetbook/backend/internal/models"
	"github.com/budgetbook/backend/internal/validation"
	"github.com/dgraph-io/ristretto/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	issuer           = "budgetbook"
	audienceSession  = "authenticated"
	audienceRecovery = "recovery"
	minPasswordLen   = 6
)

// Claims are the claims of tokens issued by the LocalProvider.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Mailer delivers emails to users.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogMailer writes emails to the log instead of sending them.
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, to, subject, body string) error {
	log.Ctx(ctx).Info().Str("to", to).Str("subject", subject).Msg(body)
	return nil
}

// Options configure a LocalProvider.
type Options struct {
	Secret      string
	SessionTTL  time.Duration
	RecoveryTTL time.Duration
	Mailer      Mailer
}

// LocalProvider is an identity provider backed by the users table.
type LocalProvider struct {
	db          *gorm.DB
	secret      []byte
	sessionTTL  time.Duration
	recoveryTTL time.Duration
	mailer      Mailer

	// Revoked token ids already seen in the revoked_tokens table
	revoked *ristretto.Cache[string, struct{}]
}

// NewLocalProvider returns a provider storing users in db.
func NewLocalProvider(db *gorm.DB, opts Options) (*LocalProvider, error) {
	if opts.Secret == "" {
		return nil, errors.New("a secret for signing sessions is required")
	}

	if opts.SessionTTL <= 0 {
		opts.SessionTTL = time.Hour
	}

	if opts.RecoveryTTL <= 0 {
		opts.RecoveryTTL = 15 * time.Minute
	}

	if opts.Mailer == nil {
		opts.Mailer = LogMailer{}
	}

	revoked, err := ristretto.NewCache(&ristretto.Config[string, struct{}]{
		NumCounters: 1e5,
		MaxCost:     1e4,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create revocation cache: %w", err)
	}

	return &LocalProvider{
		db:          db,
		secret:      []byte(opts.Secret),
		sessionTTL:  opts.SessionTTL,
		recoveryTTL: opts.RecoveryTTL,
		mailer:      opts.Mailer,
		revoked:     revoked,
	}, nil
}

// Close releases the resources of the revocation cache. Revocations
// themselves are stored in the database.
func (p *LocalProvider) Close() {
	p.revoked.Close()
}

func (p *LocalProvider) issue(user models.User, audience string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   user.ID.String(),
			Audience:  jwt.ClaimStrings{audience},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	})

	signed, err := token.SignedString(p.secret)
	return signed, expiresAt, err
}

// parse verifies the token and returns its claims if it carries one of
// the audiences and has not been revoked.
func (p *LocalProvider) parse(ctx context.Context, token string, audiences ...string) (*Claims, error) {
	keyFunc := func(*jwt.Token) (any, error) {
		return p.secret, nil
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, &AuthError{Status: http.StatusUnauthorized, Message: MsgInvalidSession, Err: err}
	}

	ok := slices.ContainsFunc(claims.Audience, func(a string) bool {
		return slices.Contains(audiences, a)
	})
	if !ok {
		return nil, newAuthError(http.StatusUnauthorized, MsgInvalidSession)
	}

	revoked, err := p.isRevoked(ctx, claims)
	if err != nil {
		return nil, unavailable(err)
	}

	if revoked {
		return nil, newAuthError(http.StatusUnauthorized, MsgInvalidSession)
	}

	return claims, nil
}

// isRevoked looks the token id up in the cache, then in the database.
// The cache only holds ids known to be revoked.
func (p *LocalProvider) isRevoked(ctx context.Context, claims *Claims) (bool, error) {
	if _, ok := p.revoked.Get(claims.ID); ok {
		return true, nil
	}

	var count int64
	err := p.db.WithContext(ctx).Model(&models.RevokedToken{}).Where("id = ?", claims.ID).Count(&count).Error
	if err != nil {
		return false, err
	}

	if count == 0 {
		return false, nil
	}

	p.remember(claims)
	return true, nil
}

func (p *LocalProvider) remember(claims *Claims) {
	if ttl := time.Until(claims.ExpiresAt.Time); ttl > 0 {
		p.revoked.SetWithTTL(claims.ID, struct{}{}, 1, ttl)
	}
}

// revoke stores the token id until the token expires. Rows of tokens that
// expired in the meantime are pruned on the way.
func (p *LocalProvider) revoke(ctx context.Context, claims *Claims) error {
	if time.Until(claims.ExpiresAt.Time) <= 0 {
		return nil
	}

	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("expires_at <= ?", time.Now().UTC()).Delete(&models.RevokedToken{}).Error
		if err != nil {
			return err
		}

		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.RevokedToken{
			ID:        claims.ID,
			ExpiresAt: claims.ExpiresAt.Time.UTC(),
		}).Error
	})
	if err != nil {
		return unavailable(err)
	}

	p.remember(claims)
	return nil
}

func (p *LocalProvider) user(ctx context.Context, claims *Claims) (models.User, error) {
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return models.User{}, newAuthError(http.StatusUnauthorized, MsgInvalidSession)
	}

	var user models.User
	err = p.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, models.ErrResourceNotFound) {
		return models.User{}, newAuthError(http.StatusUnauthorized, MsgInvalidSession)
	} else if err != nil {
		return models.User{}, unavailable(err)
	}

	return user, nil
}

func (p *LocalProvider) SignUp(ctx context.Context, data SignUpData) (models.User, error) {
	email := validation.SanitizeEmail(data.Email)
	if !validation.IsEmail(email) {
		return models.User{}, newAuthError(http.StatusBadRequest, MsgInvalidEmail)
	}

	if len(data.Password) < minPasswordLen {
		return models.User{}, newAuthError(http.StatusUnprocessableEntity, MsgWeakPassword)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(data.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, unavailable(err)
	}

	now := time.Now().UTC()
	user := models.User{Email: email, PasswordHash: string(hash), EmailConfirmedAt: &now}

	err = p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		return tx.Create(&models.Profile{
			UserID:    user.ID,
			FirstName: data.FirstName,
			LastName:  data.LastName,
		}).Error
	})
	if errors.Is(err, models.ErrUserEmailNotUnique) {
		return models.User{}, newAuthError(http.StatusUnprocessableEntity, MsgAlreadyRegistered)
	} else if err != nil {
		return models.User{}, unavailable(err)
	}

	return user, nil
}

func (p *LocalProvider) SignInWithPassword(ctx context.Context, email, password string) (Session, error) {
	var user models.User
	err := p.db.WithContext(ctx).Where("email = ?", validation.SanitizeEmail(email)).First(&user).Error
	if errors.Is(err, models.ErrResourceNotFound) {
		return Session{}, newAuthError(http.StatusBadRequest, MsgInvalidCredentials)
	} else if err != nil {
		return Session{}, unavailable(err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return Session{}, newAuthError(http.StatusBadRequest, MsgInvalidCredentials)
	}

	now := time.Now().UTC()
	err = p.db.WithContext(ctx).Model(&user).UpdateColumn("last_sign_in_at", now).Error
	if err != nil {
		return Session{}, unavailable(err)
	}
	user.LastSignInAt = &now

	token, expiresAt, err := p.issue(user, audienceSession, p.sessionTTL)
	if err != nil {
		return Session{}, unavailable(err)
	}

	return Session{AccessToken: token, TokenType: "bearer", ExpiresAt: expiresAt.UTC(), User: user}, nil
}

func (p *LocalProvider) ResetPasswordForEmail(ctx context.Context, email, redirectTo string) error {
	email = validation.SanitizeEmail(email)
	if !validation.IsEmail(email) {
		return newAuthError(http.StatusBadRequest, MsgInvalidEmail)
	}

	link, err := url.Parse(redirectTo)
	if err != nil {
		return newAuthError(http.StatusBadRequest, "Invalid redirect URL")
	}

	var user models.User
	err = p.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, models.ErrResourceNotFound) {
		// Do not reveal which addresses are registered
		log.Ctx(ctx).Debug().Msg("password recovery requested for unknown address")
		return nil
	} else if err != nil {
		return unavailable(err)
	}

	token, _, err := p.issue(user, audienceRecovery, p.recoveryTTL)
	if err != nil {
		return unavailable(err)
	}

	query := link.Query()
	query.Set("token", token)
	query.Set("type", audienceRecovery)
	link.RawQuery = query.Encode()

	err = p.mailer.Send(ctx, user.Email, "Reset your password", "Follow this link to reset your password: "+link.String())
	if err != nil {
		return unavailable(err)
	}

	return nil
}

func (p *LocalProvider) UpdateUser(ctx context.Context, token, password string) (models.User, error) {
	claims, err := p.parse(ctx, token, audienceSession, audienceRecovery)
	if err != nil {
		return models.User{}, err
	}

	user, err := p.user(ctx, claims)
	if err != nil {
		return models.User{}, err
	}

	if len(password) < minPasswordLen {
		return models.User{}, newAuthError(http.StatusUnprocessableEntity, MsgWeakPassword)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil {
		return models.User{}, newAuthError(http.StatusUnprocessableEntity, MsgSamePassword)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, unavailable(err)
	}

	err = p.db.WithContext(ctx).Model(&user).UpdateColumn("password_hash", string(hash)).Error
	if err != nil {
		return models.User{}, unavailable(err)
	}
	user.PasswordHash = string(hash)

	// Recovery links can only be used once
	if slices.Contains(claims.Audience, audienceRecovery) {
		if err := p.revoke(ctx, claims); err != nil {
			return models.User{}, err
		}
	}

	return user, nil
}

func (p *LocalProvider) SignOut(ctx context.Context, token string) error {
	claims, err := p.parse(ctx, token, audienceSession)
	if err != nil {
		return err
	}

	return p.revoke(ctx, claims)
}

func (p *LocalProvider) GetSession(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, nil
	}

	claims, err := p.parse(ctx, token, audienceSession)
	if err != nil {
		return nil, err
	}

	user, err := p.user(ctx, claims)
	if err != nil {
		return nil, err
	}

	return &Session{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   claims.ExpiresAt.Time.UTC(),
		User:        user,
	}, nil
}
