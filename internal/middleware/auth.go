package middleware

import (
	"context"
	"errors"
	"net/http"

	"task-service/internal/logger"
	"task-service/internal/session"
)

// unexported, collision-proof context keys
type userIDContextKeyType struct{}
type tokenContextKeyType struct{}

var (
	userIDKey = userIDContextKeyType{}
	tokenKey  = tokenContextKeyType{}
)

// UserIDFromContext extracts the authenticated user ID from context.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// TokenFromContext extracts the validated session token from context.
// Logout needs it to revoke the right session.
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey).(string)
	return token, ok
}

type AuthMiddleware struct {
	Sessions *session.Manager
}

func NewAuthMiddleware(sessions *session.Manager) *AuthMiddleware {
	return &AuthMiddleware{Sessions: sessions}
}

// extractToken looks in the X-Session-ID header first, then the
// session cookie.
func extractToken(r *http.Request) string {
	if token := r.Header.Get("X-Session-ID"); token != "" {
		return token
	}
	cookie, err := r.Cookie(session.CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (a *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		userID, err := a.Sessions.Validate(r.Context(), token)
		if err != nil {
			// A store failure means the session cannot be confirmed;
			// the response is the same 401 either way.
			if !errors.Is(err, session.ErrInvalid) {
				logger.Error("session validation failed", map[string]any{
					"error": err.Error(),
				})
			}
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		ctx = context.WithValue(ctx, tokenKey, token)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
