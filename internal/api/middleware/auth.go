package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rafael/central-backend/internal/service"
)

type contextKey string

const (
	ClaimsKey contextKey = "claims"
	TokenKey  contextKey = "token"
)

// Auth authenticates user requests. A missing header is rejected before
// any token or ledger work; a verified token must still have an active
// session on record, so logout revokes it immediately.
func Auth(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				unauthorized(w, "authorization required")
				return
			}

			claims, err := authService.ValidateToken(token)
			if err != nil {
				unauthorized(w, "invalid or expired token")
				return
			}

			if err := authService.ValidateSession(r.Context(), claims.SubjectID, token); err != nil {
				unauthorized(w, "session expired or invalid")
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			ctx = context.WithValue(ctx, TokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TokenAuth verifies signature and expiry only, without consulting the
// session ledger. Customer tokens are stateless, and logout needs to
// reach its handler even when the session is already closed.
func TokenAuth(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				unauthorized(w, "authorization required")
				return
			}

			claims, err := authService.ValidateToken(token)
			if err != nil {
				unauthorized(w, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			ctx = context.WithValue(ctx, TokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates a route on the authenticated user holding the named
// role. Must run inside Auth.
func RequireRole(authService *service.AuthService, roleName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetClaims(r.Context())
			if !ok {
				unauthorized(w, "authorization required")
				return
			}

			has, err := authService.HasRole(r.Context(), claims.SubjectID, roleName)
			if err != nil || !has {
				writeJSONError(w, http.StatusForbidden, "admin access required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func GetClaims(ctx context.Context) (*service.TokenClaims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*service.TokenClaims)
	return claims, ok
}

func GetSubjectID(ctx context.Context) (uuid.UUID, bool) {
	claims, ok := GetClaims(ctx)
	if !ok {
		return uuid.Nil, false
	}
	return claims.SubjectID, true
}

func GetToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(TokenKey).(string)
	return token, ok
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter, message string) {
	writeJSONError(w, http.StatusUnauthorized, message)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
