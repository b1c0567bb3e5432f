package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/itobot/scout/internal/web/templates/layout"
)

// LoginData is the data for the sign-in page
type LoginData struct {
	layout.PageData
	Email string
	Next  string
	Error string
}

// Login renders the sign-in form
func Login(data LoginData) templ.Component {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.text("<h1>Sign in</h1>\n")
		if data.Error != "" {
			h.printf(`<p class="error" id="login-error">%s</p>`+"\n", esc(data.Error))
		}
		h.printf(`<form method="post" action="/login" id="login-form">
<input type="hidden" name="next" value="%s">
<label>Email <input type="email" name="email" value="%s" required></label>
<label>Password <input type="password" name="password" required></label>
<button type="submit">Sign in</button>
</form>
`, esc(data.Next), esc(data.Email))
		return h.err
	})
	return layout.Base(data.PageData, body)
}
