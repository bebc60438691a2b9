package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/bookbookapp/bookbook-server/internal/http/response"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	contextKeyUserID contextKey = "user_id"
	contextKeyEmail  contextKey = "email"
)

// requireAuth validates the access token and attaches user context.
// Requests without a valid token are rejected.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			response.Unauthorized(w, "Missing or malformed authorization header", s.logger)
			return
		}

		claims, err := s.authService.VerifyToken(token)
		if err != nil {
			response.Unauthorized(w, "Invalid or expired token", s.logger)
			return
		}

		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims.UserID, claims.Email)))
	})
}

// optionalAuth attaches user context when a valid token is present and
// continues anonymously otherwise. Handlers that personalize output
// check getUserID for an empty string.
func (s *Server) optionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := s.authService.VerifyToken(token)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims.UserID, claims.Email)))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}

	return parts[1], true
}

func withClaims(ctx context.Context, userID, email string) context.Context {
	ctx = context.WithValue(ctx, contextKeyUserID, userID)
	return context.WithValue(ctx, contextKeyEmail, email)
}

// getUserID extracts the authenticated user ID from request context.
// Returns empty string if not authenticated.
func getUserID(ctx context.Context) string {
	if userID, ok := ctx.Value(contextKeyUserID).(string); ok {
		return userID
	}
	return ""
}
