package middleware

import (
	"context"
	"net/http"

	apimw "github.com/itobot/scout/internal/api/middleware"
	"github.com/itobot/scout/internal/model"
	"github.com/itobot/scout/internal/services/auth"
	"github.com/itobot/scout/internal/web/templates/pages"
)

type contextKey string

const (
	userContextKey contextKey = "user"
)

// GetUser retrieves the authenticated user from the request context
// Returns nil if no user is authenticated
func GetUser(ctx context.Context) *model.UserProfile {
	user, _ := ctx.Value(userContextKey).(*model.UserProfile)
	return user
}

// Auth returns middleware that requires a valid session cookie
// Renders a plain 401 page if not authenticated
func Auth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := getUserFromSession(r, authService)
			if user == nil {
				w.Header().Set("Content-Type", "text/html; charset=utf-8")
				w.WriteHeader(http.StatusUnauthorized)
				_ = pages.Unauthorized(r.URL.RequestURI()).Render(r.Context(), w)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth returns middleware that attempts authentication but doesn't require it
// Sets user in context if authenticated, nil otherwise
func OptionalAuth(authService *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := getUserFromSession(r, authService)
			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func getUserFromSession(r *http.Request, authService *auth.Service) *model.UserProfile {
	cookie, err := r.Cookie(apimw.SessionCookie)
	if err != nil || cookie.Value == "" {
		return nil
	}

	session, err := authService.ValidateSession(r.Context(), cookie.Value)
	if err != nil {
		return nil
	}

	return &session.Profile
}
