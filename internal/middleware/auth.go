package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"freelancer-booking-api/internal/auth"
)

type ctxKey string

const usernameKey ctxKey = "username"

// Username returns the authenticated principal, or "" on public routes.
func Username(ctx context.Context) string {
	u, _ := ctx.Value(usernameKey).(string)
	return u
}

// RequireAuth guards a handler behind a bearer token. The token is read
// from Authorization: Bearer <jwt>, falling back to the access_token
// cookie set at login. Failures never say which part was wrong.
func RequireAuth(secret string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := ""
		if h := r.Header.Get("Authorization"); h != "" {
			raw = strings.TrimPrefix(h, "Bearer ")
		}
		if raw == "" {
			if c, err := r.Cookie("access_token"); err == nil {
				raw = c.Value
			}
		}
		if raw == "" {
			unauthorized(w)
			return
		}

		claims, err := auth.ParseToken(raw, secret)
		if err != nil {
			unauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), usernameKey, claims.Username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"detail": "not authenticated"})
}
