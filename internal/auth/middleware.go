package auth

import (
	"context"
	"net/http"
	"strings"

	"edugames-service/internal/app"
)

type contextKey struct{}

// IdentityFromContext returns the caller identity resolved by Middleware,
// or the zero (anonymous) identity when no token was presented.
func IdentityFromContext(ctx context.Context) app.Identity {
	id, _ := ctx.Value(contextKey{}).(app.Identity)
	return id
}

// Middleware resolves an optional Bearer token into an identity. Requests
// without an Authorization header pass through as anonymous; requests with
// a malformed or expired token are rejected outright.
func (s *Service) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		tokenStr, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			http.Error(w, `{"error":"malformed authorization header"}`, http.StatusUnauthorized)
			return
		}
		claims, err := s.Parse(tokenStr)
		if err != nil {
			http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
			return
		}

		id := app.Identity{UserID: claims.Subject, Role: claims.Role}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contextKey{}, id)))
	})
}
