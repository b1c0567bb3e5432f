package handler

import (
	"net/http"

	"github.com/a-h/templ"

	"github.com/itobot/scout/internal/web/middleware"
	"github.com/itobot/scout/internal/web/templates/layout"
)

// HomeHandler handles the home page
type HomeHandler struct{}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler() *HomeHandler {
	return &HomeHandler{}
}

// Home sends the browser to the entry list
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/entries", http.StatusSeeOther)
}

// pageData collects the chrome every page shares from the request context
func pageData(r *http.Request, title string) layout.PageData {
	return layout.PageData{
		Title: title,
		User:  middleware.GetUser(r.Context()),
		Flash: middleware.GetFlash(r.Context()),
		Theme: string(middleware.GetTheme(r.Context())),
	}
}

func render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = c.Render(r.Context(), w)
}
