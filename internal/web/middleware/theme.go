package middleware

import (
	"context"
	"net/http"

	"github.com/itobot/scout/internal/workspace"
)

const (
	themeCookieName = "theme"
	themeContextKey = contextKey("theme")
)

// GetTheme returns the theme chosen by the browser, dark by default
func GetTheme(ctx context.Context) workspace.Theme {
	theme, _ := ctx.Value(themeContextKey).(workspace.Theme)
	if theme != workspace.ThemeLight {
		return workspace.ThemeDark
	}
	return theme
}

// SetTheme persists the theme in a long-lived cookie
func SetTheme(w http.ResponseWriter, theme workspace.Theme) {
	http.SetCookie(w, &http.Cookie{
		Name:     themeCookieName,
		Value:    string(theme),
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Theme returns middleware that loads the theme cookie into the context
func Theme() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			theme := workspace.ThemeDark
			if cookie, err := r.Cookie(themeCookieName); err == nil && workspace.Theme(cookie.Value) == workspace.ThemeLight {
				theme = workspace.ThemeLight
			}
			ctx := context.WithValue(r.Context(), themeContextKey, theme)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
