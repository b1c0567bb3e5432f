package pages

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
	"github.com/dustin/go-humanize"

	"github.com/itobot/scout/internal/model"
	"github.com/itobot/scout/internal/web/templates/layout"
)

// EntriesData is the data for the entry list page
type EntriesData struct {
	layout.PageData
	Query   string
	Entries []*model.ScoutEntry
	Total   int // visible entries before the search filter
}

// Entries renders the search box and the entry table
func Entries(data EntriesData) templ.Component {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}

		heading := "My entries"
		if data.User.IsAdmin() {
			heading = "All entries"
		}
		h.printf("<h1>%s</h1>\n", heading)
		h.printf(`<form method="get" action="/entries" id="search-form">
<input type="search" name="q" value="%s" placeholder="Team name or number">
<button type="submit">Search</button>
</form>
`, esc(data.Query))
		h.printf(`<p id="entry-count">Showing %d of %d entries</p>`+"\n", len(data.Entries), data.Total)

		if len(data.Entries) == 0 {
			h.text(`<p class="empty" id="no-entries">No entries found.</p>` + "\n")
			return h.err
		}

		h.text(`<table id="entries">
<thead><tr><th>Team</th><th>Name</th><th>Match</th><th>Scout</th><th>Skill</th><th>Scouted</th></tr></thead>
<tbody>
`)
		for _, e := range data.Entries {
			h.printf(`<tr class="entry" data-id="%s"><td class="team-number">%s</td><td class="team-name">%s</td><td class="match">%s</td><td class="scout">%s</td><td class="skill">%s</td><td class="scouted" title="%s">%s</td></tr>`+"\n",
				esc(string(e.ID)),
				esc(e.TeamNumber),
				esc(e.TeamName),
				esc(e.MatchNumber),
				esc(e.ScoutName),
				strconv.Itoa(e.DriverSkill),
				e.CreatedAt.UTC().Format("2006-01-02 15:04"),
				humanize.Time(e.CreatedAt),
			)
		}
		h.text("</tbody>\n</table>\n")
		return h.err
	})
	return layout.Base(data.PageData, body)
}
