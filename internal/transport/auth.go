package transport

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/williamwinkler/sitt/internal/domain/user"
)

// APIKeyHeader carries the caller's API key.
const APIKeyHeader = "x-api-key"

// ErrUnauthorized indicates invalid or missing credentials.
var ErrUnauthorized = errors.New("unauthorized")

type userKey struct{}

// UserResolver resolves a user from an API key.
type UserResolver interface {
	GetByAPIKey(ctx context.Context, apiKey string) (*user.User, error)
}

// UserFromContext returns the authenticated user from context, if present.
func UserFromContext(ctx context.Context) (*user.User, bool) {
	usr, ok := ctx.Value(userKey{}).(*user.User)
	return usr, ok
}

// ContextWithUser injects an authenticated user, for wiring and tests.
func ContextWithUser(ctx context.Context, usr *user.User) context.Context {
	return context.WithValue(ctx, userKey{}, usr)
}

// AuthMiddleware enforces x-api-key authentication.
func AuthMiddleware(resolver UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey := strings.TrimSpace(r.Header.Get(APIKeyHeader))
			if apiKey == "" {
				http.Error(w, "missing api key", http.StatusUnauthorized)
				return
			}

			usr, err := resolver.GetByAPIKey(r.Context(), apiKey)
			if err != nil || usr == nil {
				http.Error(w, "invalid api key", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), usr)))
		})
	}
}

// AdminOnly rejects requests from non-admin users.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		usr, ok := UserFromContext(r.Context())
		if !ok || !usr.IsAdmin() {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
