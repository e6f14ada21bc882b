package middleware

import (
	"context"
	"net/http"

	"inkfolio/internal/app/service"
	"inkfolio/internal/common"
	"inkfolio/internal/common/security"
	"inkfolio/internal/domain/model"
	"inkfolio/internal/domain/repository"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const principalCtxKey contextKey = "principal"

// Authenticator resolves the request's principal: verified session token ->
// server-held session -> user row. All authorization decisions go through
// the guards below; nothing else checks the admin flag.
type Authenticator struct {
	sessions service.SessionStore
	users    repository.UserRepository
}

func NewAuthenticator(sessions service.SessionStore, users repository.UserRepository) *Authenticator {
	return &Authenticator{sessions: sessions, users: users}
}

// WithPrincipal loads the principal into the context when a live session
// exists. It never rejects the request: public routes run anonymous, and
// the guards decide what anonymity means per route.
func (a *Authenticator) WithPrincipal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			next.ServeHTTP(w, r)
			return
		}

		sid, err := security.SessionIDFromClaims(claims)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		userID, err := a.sessions.Lookup(r.Context(), sid)
		if err != nil {
			// Session destroyed or expired; the cookie is a dud.
			next.ServeHTTP(w, r)
			return
		}

		user, err := a.users.FindByID(r.Context(), userID)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), principalCtxKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireUser rejects anonymous requests with 401.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := PrincipalFromContext(r.Context()); !ok {
			common.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects requests whose principal is absent or not an admin
// with 403. Content mutation routes sit behind this guard.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := PrincipalFromContext(r.Context())
		if !ok || !user.IsAdmin {
			common.RespondWithError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// PrincipalFromContext returns the authenticated user, if any.
func PrincipalFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(principalCtxKey).(*model.User)
	return user, ok
}
