package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/nomadcabs/nomad-cabs-be/internal/auth"
	"github.com/nomadcabs/nomad-cabs-be/internal/http/respond"
	"github.com/nomadcabs/nomad-cabs-be/internal/models"
	"github.com/nomadcabs/nomad-cabs-be/internal/storage"
)

type contextKey struct{}

var userKey contextKey

// UserFrom returns the authenticated user stored by Authenticator.
func UserFrom(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(userKey).(models.User)
	return u, ok
}

// Authenticator verifies bearer tokens and reloads the user row on every
// request, so role and status come from the database rather than being
// trusted from the token payload.
type Authenticator struct {
	tokens *auth.TokenManager
	users  storage.UserStore
}

// NewAuthenticator constructs the middleware.
func NewAuthenticator(tokens *auth.TokenManager, users storage.UserStore) *Authenticator {
	return &Authenticator{tokens: tokens, users: users}
}

// Require wraps next, rejecting requests without a valid token or whose
// account is suspended or deleted.
func (a *Authenticator) Require(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			respond.Error(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		claims, err := a.tokens.Parse(raw)
		if err != nil {
			respond.Error(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		user, err := a.users.GetUser(r.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				respond.Error(w, http.StatusUnauthorized, "unknown account")
				return
			}
			respond.Error(w, http.StatusInternalServerError, "failed to load account")
			return
		}
		if user.Status == models.UserSuspended || user.Status == models.UserDeleted {
			respond.Error(w, http.StatusForbidden, "account is "+string(user.Status))
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	}
}

// RequireRole wraps next, additionally demanding one of the given roles.
func (a *Authenticator) RequireRole(next http.HandlerFunc, roles ...string) http.HandlerFunc {
	return a.Require(func(w http.ResponseWriter, r *http.Request) {
		user, _ := UserFrom(r.Context())
		for _, role := range roles {
			if user.Role == role {
				next(w, r)
				return
			}
		}
		respond.Error(w, http.StatusForbidden, "insufficient role")
	})
}

// bearerToken extracts the token from the Authorization header, falling back
// to the "token" query parameter for websocket clients that cannot set
// headers.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return strings.TrimSpace(r.URL.Query().Get("token"))
}
