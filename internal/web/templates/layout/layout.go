// Package layout holds the page chrome shared by every web view
package layout

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/itobot/scout/internal/model"
)

// FlashMessage is a one-shot notice shown at the top of the next page
type FlashMessage struct {
	Type    string // success, error, info
	Message string
}

// PageData is the data every page needs for its chrome
type PageData struct {
	Title string
	User  *model.UserProfile
	Flash *FlashMessage
	Theme string
}

// Base wraps body in the document shell with navigation and the flash banner
func Base(data PageData, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		theme := data.Theme
		if theme == "" {
			theme = "dark"
		}

		if _, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en" data-theme="%s">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s | Scout</title>
</head>
<body>
`, templ.EscapeString(theme), templ.EscapeString(data.Title)); err != nil {
			return err
		}

		if err := Nav(data.User).Render(ctx, w); err != nil {
			return err
		}

		if data.Flash != nil {
			if _, err := fmt.Fprintf(w, `<div class="flash flash-%s" role="alert">%s</div>
`, templ.EscapeString(data.Flash.Type), templ.EscapeString(data.Flash.Message)); err != nil {
				return err
			}
		}

		if _, err := io.WriteString(w, "<main>\n"); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</main>\n</body>\n</html>\n")
		return err
	})
}

// Nav renders the top navigation bar
func Nav(user *model.UserProfile) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if user == nil {
			_, err := io.WriteString(w, `<nav><a href="/login">Sign in</a></nav>
`)
			return err
		}

		role := ""
		if user.IsAdmin() {
			role = ` <span class="badge" id="admin-badge">admin</span>`
		}
		_, err := fmt.Fprintf(w, `<nav>
<a href="/entries">Entries</a>
<a href="/compare">Compare</a>
<span class="user" id="current-user">%s</span>%s
<form method="post" action="/prefs/theme" class="inline"><button type="submit" name="toggle" value="1">Theme</button></form>
<form method="post" action="/logout" class="inline"><button type="submit">Sign out</button></form>
</nav>
`, templ.EscapeString(user.DisplayName()), role)
		return err
	})
}
