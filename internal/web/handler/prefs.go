package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/itobot/scout/internal/web/middleware"
	"github.com/itobot/scout/internal/workspace"
)

// PrefsHandler handles browser preferences
type PrefsHandler struct{}

// NewPrefsHandler creates a new PrefsHandler
func NewPrefsHandler() *PrefsHandler {
	return &PrefsHandler{}
}

// Theme sets the theme from the form, or flips the current one when none is given
func (h *PrefsHandler) Theme(w http.ResponseWriter, r *http.Request) {
	theme := workspace.Theme(r.FormValue("theme"))
	if theme != workspace.ThemeDark && theme != workspace.ThemeLight {
		theme = workspace.ThemeLight
		if middleware.GetTheme(r.Context()) == workspace.ThemeLight {
			theme = workspace.ThemeDark
		}
	}

	middleware.SetTheme(w, theme)

	back := "/entries"
	if ref, err := url.Parse(r.Referer()); err == nil && strings.HasPrefix(ref.Path, "/") {
		back = ref.RequestURI()
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}
