package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/pagecraft/refcast/internal/auth"
)

// TokenValidator validates a bearer token and returns its claims.
type TokenValidator interface {
	ValidateToken(token string) (*auth.Claims, error)
}

// Authenticate requires a valid bearer token on every request and stores
// the caller identity in the context for logging and rate limiting.
// Requests without a valid token receive 401.
func Authenticate(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				unauthorized(w, r.Context(), "missing bearer token")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				unauthorized(w, r.Context(), "invalid or expired token")
				return
			}

			ctx := SetCallerID(r.Context(), claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, ctx context.Context, message string) {
	UpdateResponseContext(w, SetErrorCode(ctx, "auth_failed"))
	w.Header().Set("WWW-Authenticate", `Bearer realm="refcast"`)
	http.Error(w, message, http.StatusUnauthorized)
}
