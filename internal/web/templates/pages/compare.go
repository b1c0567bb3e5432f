package pages

import (
	"context"
	"io"
	"slices"
	"strconv"

	"github.com/a-h/templ"
	"github.com/dustin/go-humanize"

	"github.com/itobot/scout/internal/services/stats"
	"github.com/itobot/scout/internal/web/templates/layout"
)

// CompareData is the data for the team comparison page
type CompareData struct {
	layout.PageData
	Teams      []stats.Team // every team the user can pick
	Selected   []string
	Comparison stats.Comparison
}

// Compare renders the team picker, one card per selected team and the quick summary
func Compare(data CompareData) templ.Component {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.text("<h1>Compare teams</h1>\n")

		h.text(`<form method="get" action="/compare" id="team-picker">` + "\n")
		for _, t := range data.Teams {
			checked := ""
			if slices.Contains(data.Selected, t.TeamNumber) {
				checked = " checked"
			}
			h.printf(`<label><input type="checkbox" name="team" value="%s"%s> %s %s</label>`+"\n",
				esc(t.TeamNumber), checked, esc(t.TeamNumber), esc(t.TeamName))
		}
		h.text(`<button type="submit">Compare</button>` + "\n</form>\n")

		cmp := data.Comparison
		if len(cmp.Teams) == 0 {
			h.text(`<p class="empty" id="no-selection">Select teams to compare.</p>` + "\n")
			return h.err
		}

		h.text(`<section id="cards">` + "\n")
		for _, ts := range cmp.Teams {
			h.printf(`<article class="card skill-%s" data-team="%s">
<h2>%s <small>%s</small></h2>
<dl>
<dt>Average skill</dt><dd class="average">%s</dd>
<dt>Range</dt><dd class="range">%d to %d</dd>
<dt>Entries</dt><dd class="total">%d</dd>
<dt>Last scouted</dt><dd class="last-scouted">%s</dd>
</dl>
</article>
`,
				stats.SkillBand(ts.AverageDriverSkill),
				esc(ts.TeamNumber),
				esc(ts.TeamNumber), esc(ts.TeamName),
				formatAverage(ts.AverageDriverSkill),
				ts.LowestSkill, ts.HighestSkill,
				ts.TotalEntries,
				humanize.Time(ts.LastScoutedAt),
			)
		}
		h.text("</section>\n")

		h.printf(`<section id="summary">
<h2>Quick summary</h2>
<p>Teams: <span id="summary-teams">%d</span></p>
<p>Total entries: <span id="summary-entries">%d</span></p>
<p>Highest average: <span id="summary-highest">%s</span></p>
<p>Overall average: <span id="summary-overall">%s</span></p>
</section>
`, len(cmp.Teams), cmp.TotalEntries, formatAverage(cmp.HighestAverage), formatAverage(cmp.OverallAverage))
		return h.err
	})
	return layout.Base(data.PageData, body)
}

func formatAverage(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
