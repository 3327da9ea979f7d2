// Package navigation decides whether a client route may be entered.
package navigation

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/budgetbook/backend/internal/auth"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/ryanuber/go-glob"
)

// Well known client routes.
const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
	AdminPath     = "/admin"
)

// Access is the session requirement of a route.
type Access int

const (
	// Public routes can be entered by anyone.
	Public Access = iota
	// PublicOnly routes are for visitors without a session, e.g. the login.
	PublicOnly
	// Protected routes need a session.
	Protected
	// AdminOnly routes need a session of an administrator.
	AdminOnly
	// SuperAdminOnly routes need a session of a super administrator.
	SuperAdminOnly
)

// Route is an entry of the route table. Pattern is a glob where * matches
// any sequence of characters. A route with Redirect set is never entered.
type Route struct {
	Pattern  string
	Access   Access
	Redirect string
}

// DefaultRoutes is the route table of the web client. The first matching
// route applies.
var DefaultRoutes = []Route{
	{Pattern: "/", Redirect: DashboardPath},
	{Pattern: "/login", Access: PublicOnly},
	{Pattern: "/register", Access: PublicOnly},
	{Pattern: "/reset-password", Access: PublicOnly},
	{Pattern: "/update-password", Access: PublicOnly},
	{Pattern: "/admin/settings", Access: SuperAdminOnly},
	{Pattern: "/admin/settings/*", Access: SuperAdminOnly},
	{Pattern: "/admin", Access: AdminOnly},
	{Pattern: "/admin/*", Access: AdminOnly},
	{Pattern: "/dashboard", Access: Protected},
	{Pattern: "/assets", Access: Protected},
	{Pattern: "/analytics", Access: Protected},
	{Pattern: "/transactions", Access: Protected},
	{Pattern: "/transactions/*", Access: Protected},
	{Pattern: "/budget", Access: Protected},
	{Pattern: "/settings", Access: Protected},
	{Pattern: "/profile", Access: Protected},
}

// Decision is the outcome of entering a route. If Allow is false, the
// client navigates to Redirect with the Query parameters instead.
type Decision struct {
	Allow    bool              `json:"allow" example:"false"`                      // The route may be entered
	Redirect string            `json:"redirect,omitempty" example:"/login"`        // Path to navigate to instead
	Query    map[string]string `json:"query,omitempty" example:"redirect:/budget"` // Query parameters for the redirect
}

// Location returns the redirect target including the query.
func (d Decision) Location() string {
	if d.Allow {
		return ""
	}

	if len(d.Query) == 0 {
		return d.Redirect
	}

	values := url.Values{}
	for k, v := range d.Query {
		values.Set(k, v)
	}
	return d.Redirect + "?" + values.Encode()
}

func allow() Decision {
	return Decision{Allow: true}
}

func redirect(to string) Decision {
	return Decision{Redirect: to}
}

// SessionChecker looks up the session for a token.
type SessionChecker interface {
	CheckSession(ctx context.Context, token string) (*auth.Session, error)
}

// AdminChecker looks up the administrative rights of a user.
type AdminChecker interface {
	CheckAdmin(ctx context.Context, userID uuid.UUID) (auth.AdminStatus, error)
}

// Guard resolves route entries against the route table.
type Guard struct {
	routes   []Route
	sessions SessionChecker
	admins   AdminChecker
}

// anonymous knows no sessions and no administrators.
type anonymous struct{}

func (anonymous) CheckSession(context.Context, string) (*auth.Session, error) {
	return nil, nil
}

func (anonymous) CheckAdmin(context.Context, uuid.UUID) (auth.AdminStatus, error) {
	return auth.AdminStatus{}, nil
}

// NewGuard returns a guard for the routes. If routes is nil, DefaultRoutes
// are used. A nil sessions checker treats every visitor as signed out and
// a nil admins checker denies all admin routes.
func NewGuard(routes []Route, sessions SessionChecker, admins AdminChecker) *Guard {
	if routes == nil {
		routes = DefaultRoutes
	}
	if sessions == nil {
		sessions = anonymous{}
	}
	if admins == nil {
		admins = anonymous{}
	}
	return &Guard{routes: routes, sessions: sessions, admins: admins}
}

func (g *Guard) match(p string) (Route, bool) {
	for _, r := range g.routes {
		if glob.Glob(r.Pattern, p) {
			return r, true
		}
	}
	return Route{}, false
}

// clean returns the path used for matching. Query and fragment are
// dropped and the path is normalized.
func clean(fullPath string) string {
	p := fullPath
	if u, err := url.Parse(fullPath); err == nil {
		p = u.Path
	}

	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

// session returns the session for the token. Invalid or expired tokens
// count as no session, any other failure is returned.
func (g *Guard) session(ctx context.Context, token string) (*auth.Session, error) {
	session, err := g.sessions.CheckSession(ctx, token)

	var authErr *auth.AuthError
	if errors.As(err, &authErr) && authErr.Status == http.StatusUnauthorized {
		return nil, nil
	}

	return session, err
}

// Resolve decides whether the route at fullPath may be entered with the
// session token. It never fails: errors during the session lookup lead to
// the login on routes that need a session and are ignored on others.
func (g *Guard) Resolve(ctx context.Context, fullPath, token string) Decision {
	route, ok := g.match(clean(fullPath))
	if !ok {
		return redirect(LoginPath)
	}

	if route.Redirect != "" {
		return redirect(route.Redirect)
	}

	if route.Access == Public {
		return allow()
	}

	session, err := g.session(ctx, token)

	if route.Access == PublicOnly {
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Str("path", fullPath).Msg("session lookup failed on public route")
			return allow()
		}

		if session != nil {
			return redirect(DashboardPath)
		}
		return allow()
	}

	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("path", fullPath).Msg("session lookup failed on protected route")
		return redirect(LoginPath)
	}

	if session == nil {
		return Decision{Redirect: LoginPath, Query: map[string]string{"redirect": fullPath}}
	}

	if route.Access == Protected {
		return allow()
	}

	status, err := g.admins.CheckAdmin(ctx, session.User.ID)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("path", fullPath).Msg("admin lookup failed")
		return redirect(LoginPath)
	}

	if !status.IsAdmin {
		return redirect(LoginPath)
	}

	if route.Access == SuperAdminOnly && !status.IsSuperAdmin {
		return redirect(AdminPath)
	}

	return allow()
}
