package handler

import (
	"net/http"
	"strings"
	"time"

	apimw "github.com/itobot/scout/internal/api/middleware"
	"github.com/itobot/scout/internal/services/auth"
	"github.com/itobot/scout/internal/web/middleware"
	"github.com/itobot/scout/internal/web/templates/pages"
)

// AuthHandler handles sign-in pages and actions
type AuthHandler struct {
	authService *auth.Service
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// LoginPage renders the login page
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if middleware.GetUser(r.Context()) != nil {
		// Already logged in
		http.Redirect(w, r, "/entries", http.StatusSeeOther)
		return
	}

	data := pages.LoginData{
		PageData: pageData(r, "Sign in"),
		Next:     r.URL.Query().Get("next"),
	}
	render(w, r, http.StatusOK, pages.Login(data))
}

// Login handles login form submission
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLoginError(w, r, http.StatusBadRequest, "Invalid form data", "", "")
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")
	next := r.FormValue("next")

	if email == "" || password == "" {
		h.renderLoginError(w, r, http.StatusBadRequest, "Email and password are required", email, next)
		return
	}

	session, err := h.authService.Login(r.Context(), email, password)
	if err != nil {
		h.renderLoginError(w, r, http.StatusUnauthorized, "Invalid email or password", email, next)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     apimw.SessionCookie,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	middleware.FlashSignedIn(w, &session.Profile)

	// Only local paths, never an absolute URL
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") {
		http.Redirect(w, r, next, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/entries", http.StatusSeeOther)
}

// Logout revokes the session and clears the cookie
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(apimw.SessionCookie); err == nil && cookie.Value != "" {
		_ = h.authService.InvalidateSession(cookie.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     apimw.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	middleware.FlashSignedOut(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AuthHandler) renderLoginError(w http.ResponseWriter, r *http.Request, status int, msg, email, next string) {
	data := pages.LoginData{
		PageData: pageData(r, "Sign in"),
		Email:    email,
		Next:     next,
		Error:    msg,
	}
	render(w, r, status, pages.Login(data))
}
