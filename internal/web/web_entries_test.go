package web_test

import (
	"net/http"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntriesShowOwnEntriesOnly(t *testing.T) {
	ts := newWebTestServer(t)
	ada := ts.register("ada@example.com", "Ada", "Lovelace")
	grace := ts.register("grace@example.com", "Grace", "Hopper")
	ts.addEntry(ada, "254", "The Cheesy Poofs", "Q1", 7)
	ts.addEntry(grace, "1678", "Citrus Circuits", "Q2", 9)
	ts.login("ada@example.com")

	rr := ts.get("/entries")
	require.Equal(t, http.StatusOK, rr.Code)

	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, "h1", "My entries")
	assert.Equal(t, 1, doc.Find("tr.entry").Length())
	assertContainsText(t, doc, "tr.entry td.team-name", "The Cheesy Poofs")
	assertContainsText(t, doc, "tr.entry td.scout", "Ada Lovelace")
	assertContainsText(t, doc, "#entry-count", "Showing 1 of 1 entries")
}

func TestEntriesAdminSeesEverything(t *testing.T) {
	ts := newWebTestServer(t)
	lead := ts.register(adminEmail, "Team", "Lead")
	grace := ts.register("grace@example.com", "Grace", "Hopper")
	ts.addEntry(lead, "254", "The Cheesy Poofs", "Q1", 7)
	ts.addEntry(grace, "1678", "Citrus Circuits", "Q2", 9)
	ts.login(adminEmail)

	doc := parseHTML(ts.get("/entries").Body)
	assertContainsElement(t, doc, "#admin-badge")
	assertContainsText(t, doc, "h1", "All entries")

	// Newest first
	var teams []string
	doc.Find("tr.entry td.team-number").Each(func(_ int, s *goquery.Selection) {
		teams = append(teams, s.Text())
	})
	assert.Equal(t, []string{"1678", "254"}, teams)
}

func TestEntriesSearch(t *testing.T) {
	ts := newWebTestServer(t)
	ada := ts.register("ada@example.com", "Ada", "Lovelace")
	ts.addEntry(ada, "254", "The Cheesy Poofs", "Q1", 7)
	ts.addEntry(ada, "1678", "Citrus Circuits", "Q2", 9)
	ts.login("ada@example.com")

	doc := parseHTML(ts.get("/entries?q=cheesy").Body)
	assert.Equal(t, 1, doc.Find("tr.entry").Length())
	assertContainsText(t, doc, "td.team-number", "254")
	assertContainsText(t, doc, "#entry-count", "Showing 1 of 2 entries")
	q, _ := doc.Find("#search-form input[name='q']").Attr("value")
	assert.Equal(t, "cheesy", q)

	// Team number matches too
	doc = parseHTML(ts.get("/entries?q=167").Body)
	assertContainsText(t, doc, "td.team-name", "Citrus Circuits")

	doc = parseHTML(ts.get("/entries?q=nobody").Body)
	assertContainsElement(t, doc, "#no-entries")
	assertNotContainsElement(t, doc, "table#entries")
}

func TestEntriesEscapeUserText(t *testing.T) {
	ts := newWebTestServer(t)
	ada := ts.register("ada@example.com", "Ada", "Lovelace")
	ts.addEntry(ada, "9999", "<b>Bots</b>", "Q1", 5)
	ts.login("ada@example.com")

	doc := parseHTML(ts.get("/entries").Body)
	assertNotContainsElement(t, doc, "td.team-name b")
	assertContainsText(t, doc, "td.team-name", "<b>Bots</b>")
}

func TestCompare(t *testing.T) {
	ts := newWebTestServer(t)
	ada := ts.register("ada@example.com", "Ada", "Lovelace")
	ts.addEntry(ada, "254", "Poofs", "Q1", 7)
	ts.addEntry(ada, "254", "The Cheesy Poofs", "Q5", 8)
	ts.addEntry(ada, "1678", "Citrus Circuits", "Q2", 9)
	ts.login("ada@example.com")

	rr := ts.get("/compare?team=254&team=1678&team=404")
	require.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)

	cards := doc.Find("article.card")
	require.Equal(t, 2, cards.Length())

	first := cards.First()
	team, _ := first.Attr("data-team")
	assert.Equal(t, "254", team)
	assert.True(t, first.HasClass("skill-medium"))
	assert.Contains(t, first.Find("h2").Text(), "The Cheesy Poofs")
	assert.Equal(t, "7.5", first.Find(".average").Text())
	assert.Equal(t, "7 to 8", first.Find(".range").Text())
	assert.Equal(t, "2", first.Find(".total").Text())

	last := cards.Last()
	assert.True(t, last.HasClass("skill-high"))

	assert.Equal(t, "2", doc.Find("#summary-teams").Text())
	assert.Equal(t, "3", doc.Find("#summary-entries").Text())
	assert.Equal(t, "9.0", doc.Find("#summary-highest").Text())
	assert.Equal(t, "8.3", doc.Find("#summary-overall").Text())

	// Selected teams stay ticked in the picker
	assertContainsElement(t, doc, "#team-picker input[value='254'][checked]")
	assertContainsElement(t, doc, "#team-picker input[value='1678'][checked]")
}

func TestCompareWithoutSelection(t *testing.T) {
	ts := newWebTestServer(t)
	ada := ts.register("ada@example.com", "Ada", "Lovelace")
	ts.addEntry(ada, "254", "The Cheesy Poofs", "Q1", 7)
	ts.login("ada@example.com")

	doc := parseHTML(ts.get("/compare").Body)
	assertContainsElement(t, doc, "#no-selection")
	assertNotContainsElement(t, doc, "#summary")
	assert.Equal(t, 1, doc.Find("#team-picker input[type='checkbox']").Length())
	assertNotContainsElement(t, doc, "#team-picker input[checked]")
}
