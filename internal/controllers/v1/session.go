package v1

import (
	"net/http"

	"github.com/budgetbook/backend/internal/auth"
	"github.com/budgetbook/backend/internal/httputil"
	"github.com/budgetbook/backend/internal/i18n"
	"github.com/budgetbook/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
)

const sessionKey = "session"

// RequireSession rejects requests without a valid bearer token. The
// session is stored in the gin context for the handlers.
//
// OPTIONS requests pass without a session so that clients can discover
// the allowed methods.
func (co Controller) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		session, err := co.Gateway.CheckSession(c.Request.Context(), httputil.BearerToken(c))
		if err != nil {
			abort(c, err)
			return
		}

		if session == nil {
			abort(c, models.ErrNoUser)
			return
		}

		c.Set(sessionKey, session)

		logger := log.Ctx(c.Request.Context()).With().Str("user", session.User.ID.String()).Logger()
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context()))

		c.Next()
	}
}

// session returns the session of the request, nil if there is none.
func session(c *gin.Context) *auth.Session {
	s, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}

	session, _ := s.(*auth.Session)
	return session
}

// userID returns the ID of the authenticated user, uuid.Nil if there
// is none.
func userID(c *gin.Context) uuid.UUID {
	s := session(c)
	if s == nil {
		return uuid.Nil
	}
	return s.User.ID
}

// locale returns the language negotiated for the request.
func locale(c *gin.Context) language.Tag {
	if tag, ok := c.Get(i18n.ContextKey); ok {
		if t, ok := tag.(language.Tag); ok {
			return t
		}
	}

	return i18n.Match(c.GetHeader("Accept-Language"))
}
