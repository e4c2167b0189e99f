// file: internal/middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"castnfish/internal/contextutils"
	"castnfish/internal/response"
	"castnfish/internal/services"
)

// Auth verifies the bearer token and puts the authenticated identity on the
// request context. Requests without a valid token are rejected.
func Auth(auth services.AuthService, builder *response.Builder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				builder.WriteUnauthorized(w, r, "missing bearer token")
				return
			}

			claims, err := auth.VerifyToken(r.Context(), token)
			if err != nil {
				builder.WriteError(w, r, err)
				return
			}

			ctx := contextutils.WithUserID(r.Context(), claims.UserID)
			ctx = contextutils.WithUsername(ctx, claims.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth attaches the identity when a valid token is present but lets
// anonymous requests through. Endpoints use it to personalize public data.
func OptionalAuth(auth services.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := bearerToken(r); token != "" {
				if claims, err := auth.VerifyToken(r.Context(), token); err == nil {
					ctx := contextutils.WithUserID(r.Context(), claims.UserID)
					ctx = contextutils.WithUsername(ctx, claims.Username)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		// Websocket clients cannot set headers from the browser.
		return r.URL.Query().Get("token")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
