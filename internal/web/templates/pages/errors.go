package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Unauthorized is the bare page served to requests without a valid session
func Unauthorized(next string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.printf(`<!DOCTYPE html>
<html lang="en">
<head><title>Unauthorized</title></head>
<body>
<h1>401 Unauthorized</h1>
<p>You need to sign in to view this page.</p>
<p><a id="login-link" href="/login?next=%s">Sign in</a></p>
</body>
</html>
`, esc(next))
		return h.err
	})
}

// ServerError is served when a page handler panics. requestID lets a scout
// quote the failure to whoever reads the server log.
func ServerError(requestID string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.text(`<!DOCTYPE html>
<html lang="en">
<head><title>Error</title></head>
<body>
<h1>500 Internal Server Error</h1>
<p>Something went wrong while loading scouting data. Your saved entries are not affected.</p>
`)
		if requestID != "" {
			h.printf("<p>Reference: <code id=\"request-id\">%s</code></p>\n", esc(requestID))
		}
		h.text(`<p><a href="/entries">Back to entries</a></p>
</body>
</html>
`)
		return h.err
	})
}
