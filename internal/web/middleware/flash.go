package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/itobot/scout/internal/model"
	"github.com/itobot/scout/internal/web/templates/layout"
)

const (
	flashCookieName = "flash"
	flashContextKey = contextKey("flash")
)

// Flash kinds, also used as the banner's CSS suffix
const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashError   = "error"
)

// GetFlash retrieves the flash message from the request context
// Returns nil if no flash message is set
func GetFlash(ctx context.Context) *layout.FlashMessage {
	flash, _ := ctx.Value(flashContextKey).(*layout.FlashMessage)
	return flash
}

// SetFlash sets a flash message to be displayed on the next request.
// The value is query-escaped so scout names outside ASCII survive the cookie.
func SetFlash(w http.ResponseWriter, kind, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    url.QueryEscape(kind + ":" + message),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// FlashSignedIn greets the scout on the page after login
func FlashSignedIn(w http.ResponseWriter, user *model.UserProfile) {
	SetFlash(w, FlashSuccess, "Welcome back, "+user.DisplayName()+"!")
}

// FlashSignedOut confirms a logout on the login page
func FlashSignedOut(w http.ResponseWriter) {
	SetFlash(w, FlashInfo, "You have been signed out")
}

// EntriesUnavailable is the banner shown in place of a list that failed to load
func EntriesUnavailable() *layout.FlashMessage {
	return &layout.FlashMessage{Type: FlashError, Message: "Could not load entries. Try again shortly."}
}

// Flash returns middleware that reads and clears flash messages
func Flash() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var flash *layout.FlashMessage

			cookie, err := r.Cookie(flashCookieName)
			if err == nil && cookie.Value != "" {
				flash = parseFlash(cookie.Value)

				http.SetCookie(w, &http.Cookie{
					Name:     flashCookieName,
					Value:    "",
					Path:     "/",
					MaxAge:   -1,
					Expires:  time.Unix(0, 0),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), flashContextKey, flash)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func parseFlash(value string) *layout.FlashMessage {
	if decoded, err := url.QueryUnescape(value); err == nil {
		value = decoded
	}

	kind, message, found := strings.Cut(value, ":")
	if !found {
		return &layout.FlashMessage{Type: FlashInfo, Message: value}
	}

	switch kind {
	case FlashSuccess, FlashInfo, FlashError:
	default:
		kind = FlashInfo
	}
	return &layout.FlashMessage{Type: kind, Message: message}
}
