package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-match-api/internal/domain"
)

type contextKey string

const UserKey contextKey = "user"

// Authenticator resolves a bearer token to its live user record.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// Auth returns middleware that validates the Bearer JWT and injects the
// resolved user into the request context. Tokens whose user no longer exists
// or is disabled are rejected.
func Auth(authn Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeJSONError(w, http.StatusUnauthorized, "missing or invalid authorization header", "ERROR_UNAUTHORIZED")
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
			u, err := authn.Authenticate(r.Context(), tokenStr)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "invalid or expired token", "ERROR_UNAUTHORIZED")
				return
			}
			ctx := context.WithValue(r.Context(), UserKey, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext extracts the authenticated user from the request context.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(UserKey).(*domain.User)
	return u, ok
}
