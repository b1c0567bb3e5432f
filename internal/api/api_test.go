package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itobot/scout/internal/api"
	"github.com/itobot/scout/internal/api/apierr"
	"github.com/itobot/scout/internal/api/response"
	"github.com/itobot/scout/internal/factory"
	"github.com/itobot/scout/internal/testutil"
)

const adminEmail = "lead@example.com"

// testServer creates a test server with all dependencies
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
	namer   *stubNamer
}

type stubNamer struct {
	names map[string]string
	err   error
}

func (n *stubNamer) TeamName(_ context.Context, teamNumber string) (string, error) {
	if n.err != nil {
		return "", n.err
	}
	return n.names[teamNumber], nil
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	app := factory.NewTestApp(adminEmail)
	namer := &stubNamer{names: map[string]string{"254": "The Cheesy Poofs"}}

	router := api.NewRouter(api.RouterConfig{
		Logger:      testutil.NopLogger(),
		AuthService: app.AuthService,
		Entries:     app.Entries,
		TeamNamer:   namer,
		Metrics:     app.Metrics,
		Clock:       app.MockClock,
		StorageType: "memory",
	})

	return &testServer{handler: router, app: app, namer: namer}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func (ts *testServer) register(t *testing.T, email, name, surname string) response.AuthResponse {
	t.Helper()
	rr := ts.request(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email":    email,
		"password": "secret123",
		"name":     name,
		"surname":  surname,
	}, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp response.AuthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func (ts *testServer) createEntry(t *testing.T, token, team, teamName string, skill int) string {
	t.Helper()
	ts.app.MockClock.Advance(time.Minute)
	rr := ts.request(http.MethodPost, "/api/v1/entries", map[string]any{
		"team_number":  team,
		"match_number": "Q12",
		"team_name":    teamName,
		"driver_skill": skill,
	}, token)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp response.CreatedEntry
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.ID
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[apierr.ErrorResponse](t, rr).Error.Code
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestRegisterAndLogin(t *testing.T) {
	ts := newTestServer(t)

	reg := ts.register(t, "ada@example.com", "Ada", "Lovelace")
	assert.Equal(t, "Ada Lovelace", reg.User.DisplayName)
	assert.Equal(t, "user", reg.User.Role)
	assert.NotEmpty(t, reg.SessionToken)

	rr := ts.request(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "ADA@example.com",
		"password": "secret123",
	}, "")
	require.Equal(t, http.StatusOK, rr.Code)

	login := decodeBody[response.AuthResponse](t, rr)
	assert.Equal(t, reg.User.UID, login.User.UID)

	var cookie *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == "session" {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.Equal(t, login.SessionToken, cookie.Value)
	assert.True(t, cookie.HttpOnly)
}

func TestRegisterValidation(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email":    "ada@example.com",
		"password": "short",
		"name":     "Ada",
		"surname":  "Lovelace",
	}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	resp := decodeBody[apierr.ErrorResponse](t, rr)
	assert.Equal(t, apierr.CodeValidationFailed, resp.Error.Code)
	assert.Equal(t, "password", resp.Error.Field)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "ada@example.com", "Ada", "Lovelace")

	rr := ts.request(http.MethodPost, "/api/v1/auth/register", map[string]string{
		"email":    "ada@example.com",
		"password": "secret123",
		"name":     "Other",
		"surname":  "Person",
	}, "")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeEmailInUse, errorCode(t, rr))
}

func TestLoginWrongPassword(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "ada@example.com", "Ada", "Lovelace")

	rr := ts.request(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "ada@example.com",
		"password": "wrong-password",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, apierr.CodeInvalidCredentials, errorCode(t, rr))
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/api/v1/auth/me", "/api/v1/entries", "/api/v1/teams", "/api/v1/admin/summary"} {
		rr := ts.request(http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code, path)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	ts := newTestServer(t)
	reg := ts.register(t, "ada@example.com", "Ada", "Lovelace")

	rr := ts.request(http.MethodPost, "/api/v1/auth/logout", nil, reg.SessionToken)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/auth/me", nil, reg.SessionToken)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestCreateEntryAttributesToSession(t *testing.T) {
	ts := newTestServer(t)
	ada := ts.register(t, "ada@example.com", "Ada", "Lovelace")

	id := ts.createEntry(t, ada.SessionToken, "254", "Poofs", 8)

	rr := ts.request(http.MethodGet, "/api/v1/entries/"+id, nil, ada.SessionToken)
	require.Equal(t, http.StatusOK, rr.Code)

	entry := decodeBody[response.Entry](t, rr)
	assert.Equal(t, "Ada Lovelace", entry.ScoutName)
	assert.Equal(t, ada.User.UID, entry.OwnerUID)
	assert.Equal(t, ts.app.MockClock.Now(), entry.CreatedAt)
}

func TestCreateEntryValidation(t *testing.T) {
	ts := newTestServer(t)
	ada := ts.register(t, "ada@example.com", "Ada", "Lovelace")

	rr := ts.request(http.MethodPost, "/api/v1/entries", map[string]any{
		"team_number":  "254",
		"match_number": "Q1",
		"team_name":    "Poofs",
		"driver_skill": 11,
	}, ada.SessionToken)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "driver_skill", decodeBody[apierr.ErrorResponse](t, rr).Error.Field)

	rr = ts.request(http.MethodGet, "/api/v1/entries", nil, ada.SessionToken)
	assert.Empty(t, decodeBody[response.EntryList](t, rr).Entries)
}

func TestListEntriesVisibility(t *testing.T) {
	ts := newTestServer(t)
	ada := ts.register(t, "ada@example.com", "Ada", "Lovelace")
	bob := ts.register(t, "bob@example.com", "Bob", "Builder")
	lead := ts.register(t, adminEmail, "Lead", "Mentor")
	assert.Equal(t, "admin", lead.User.Role)

	ts.createEntry(t, ada.SessionToken, "254", "The Cheesy Poofs", 8)
	ts.createEntry(t, bob.SessionToken, "1678", "Citrus Circuits", 9)
	ts.createEntry(t, ada.SessionToken, "971", "Spartan Robotics", 7)

	rr := ts.request(http.MethodGet, "/api/v1/entries", nil, ada.SessionToken)
	mine := decodeBody[response.EntryList](t, rr).Entries
	require.Len(t, mine, 2)
	assert.Equal(t, "971", mine[0].TeamNumber, "newest first")
	assert.Equal(t, "254", mine[1].TeamNumber)

	rr = ts.request(http.MethodGet, "/api/v1/entries", nil, lead.SessionToken)
	assert.Len(t, decodeBody[response.EntryList](t, rr).Entries, 3)

	rr = ts.request(http.MethodGet, "/api/v1/entries?q=poofs", nil, ada.SessionToken)
	found := decodeBody[response.EntryList](t, rr).Entries
	require.Len(t, found, 1)
	assert.Equal(t, "254", found[0].TeamNumber)
}

func TestEntryPermissions(t *testing.T) {
	ts := newTestServer(t)
	ada := ts.register(t, "ada@example.com", "Ada", "Lovelace")
	bob := ts.register(t, "bob@example.com", "Bob", "Builder")
	lead := ts.register(t, adminEmail, "Lead", "Mentor")

	id := ts.createEntry(t, ada.SessionToken, "254", "Poofs", 8)

	rr := ts.request(http.MethodGet, "/api/v1/entries/"+id, nil, bob.SessionToken)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = ts.request(http.MethodPatch, "/api/v1/entries/"+id, map[string]any{"driver_skill": 2}, bob.SessionToken)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = ts.request(http.MethodDelete, "/api/v1/entries/"+id, nil, bob.SessionToken)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	// Scouts cannot re-attribute their own entries
	rr = ts.request(http.MethodPatch, "/api/v1/entries/"+id, map[string]any{"scout_name": "Bob Builder"}, ada.SessionToken)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = ts.request(http.MethodPatch, "/api/v1/entries/"+id, map[string]any{"scout_name": "Bob Builder"}, lead.SessionToken)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Bob Builder", decodeBody[response.Entry](t, rr).ScoutName)
}

func TestUpdateEntryMerges(t *testing.T) {
	ts := newTestServer(t)
	ada := ts.register(t, "ada@example.com", "Ada", "Lovelace")
	id := ts.createEntry(t, ada.SessionToken, "254", "Poofs", 8)

	rr := ts.request(http.MethodPatch, "/api/v1/entries/"+id, map[string]any{
		"driver_skill":  9,
		"general_notes": "fast cycles",
	}, ada.SessionToken)
	require.Equal(t, http.StatusOK, rr.Code)

	entry := decodeBody[response.Entry](t, rr)
	assert.Equal(t, 9, entry.DriverSkill)
	assert.Equal(t, "fast cycles", entry.GeneralNotes)
	assert.Equal(t, "Poofs", entry.TeamName)
	assert.Equal(t, "Q12", entry.MatchNumber)
}

func TestUpdateMissingEntry(t *testing.T) {
	ts := newTestServer(t)
	ada := ts.register(t, "ada@example.com", "Ada", "Lovelace")

	rr := ts.request(http.MethodPatch, "/api/v1/entries/nope", map[string]any{"driver_skill": 3}, ada.SessionToken)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeEntryNotFound, errorCode(t, rr))
}

func TestDeleteEntryIsIdempotent(t *testing.T) {
	ts := newTestServer(t)
	ada := ts.register(t, "ada@example.com", "Ada", "Lovelace")
	id := ts.createEntry(t, ada.SessionToken, "254", "Poofs", 8)

	rr := ts.request(http.MethodDelete, "/api/v1/entries/"+id, nil, ada.SessionToken)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodDelete, "/api/v1/entries/"+id, nil, ada.SessionToken)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/entries/"+id, nil, ada.SessionToken)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestTeamStats(t *testing.T) {
	ts := newTestServer(t)
	ada := ts.register(t, "ada@example.com", "Ada", "Lovelace")

	ts.createEntry(t, ada.SessionToken, "254", "Poofs", 7)
	ts.createEntry(t, ada.SessionToken, "254", "The Cheesy Poofs", 8)
	ts.createEntry(t, ada.SessionToken, "1678", "Citrus Circuits", 5)

	rr := ts.request(http.MethodGet, "/api/v1/teams/254/stats", nil, ada.SessionToken)
	require.Equal(t, http.StatusOK, rr.Code)

	st := decodeBody[response.TeamStats](t, rr)
	assert.Equal(t, "The Cheesy Poofs", st.TeamName)
	assert.Equal(t, 2, st.TotalEntries)
	assert.Equal(t, 7.5, st.AverageDriverSkill)
	assert.Equal(t, 8, st.HighestSkill)
	assert.Equal(t, 7, st.LowestSkill)
	assert.Equal(t, "medium", st.SkillBand)

	rr = ts.request(http.MethodGet, "/api/v1/teams/9999/stats", nil, ada.SessionToken)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeTeamNotScouted, errorCode(t, rr))

	rr = ts.request(http.MethodGet, "/api/v1/teams", nil, ada.SessionToken)
	teams := decodeBody[response.TeamList](t, rr).Teams
	require.Len(t, teams, 2)
	assert.Equal(t, "1678", teams[0].TeamNumber)
	assert.Equal(t, "The Cheesy Poofs", teams[1].TeamName, "first occurrence in the newest-first list")
}

func TestCompareTeams(t *testing.T) {
	ts := newTestServer(t)
	ada := ts.register(t, "ada@example.com", "Ada", "Lovelace")

	ts.createEntry(t, ada.SessionToken, "254", "Poofs", 8)
	ts.createEntry(t, ada.SessionToken, "1678", "Citrus Circuits", 6)

	rr := ts.request(http.MethodGet, "/api/v1/teams/compare?team=254&team=1678&team=9999", nil, ada.SessionToken)
	require.Equal(t, http.StatusOK, rr.Code)

	cmp := decodeBody[response.Comparison](t, rr)
	require.Len(t, cmp.Teams, 2)
	assert.Equal(t, 2, cmp.TotalEntries)
	assert.Equal(t, 8.0, cmp.HighestAverage)
	assert.Equal(t, 7.0, cmp.OverallAverage)

	rr = ts.request(http.MethodGet, "/api/v1/teams/compare", nil, ada.SessionToken)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestTeamNameLookup(t *testing.T) {
	ts := newTestServer(t)
	ada := ts.register(t, "ada@example.com", "Ada", "Lovelace")

	rr := ts.request(http.MethodGet, "/api/v1/teams/254/name", nil, ada.SessionToken)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "The Cheesy Poofs", decodeBody[response.TeamName](t, rr).TeamName)

	ts.namer.err = assert.AnError
	rr = ts.request(http.MethodGet, "/api/v1/teams/254/name", nil, ada.SessionToken)
	require.Equal(t, http.StatusOK, rr.Code, "lookup failures are absorbed")
	assert.Empty(t, decodeBody[response.TeamName](t, rr).TeamName)
}

func TestAdminRoutesRequireVerifiedRole(t *testing.T) {
	ts := newTestServer(t)
	ada := ts.register(t, "ada@example.com", "Ada", "Lovelace")

	for _, path := range []string{"/api/v1/admin/entries", "/api/v1/admin/summary", "/api/v1/admin/export", "/api/v1/admin/users"} {
		rr := ts.request(http.MethodGet, path, nil, ada.SessionToken)
		assert.Equal(t, http.StatusForbidden, rr.Code, path)
		assert.Equal(t, apierr.CodeForbidden, errorCode(t, rr))
	}
}

func TestAdminSummaryAndExport(t *testing.T) {
	ts := newTestServer(t)
	ada := ts.register(t, "ada@example.com", "Ada", "Lovelace")
	lead := ts.register(t, adminEmail, "Lead", "Mentor")

	ts.createEntry(t, ada.SessionToken, "254", "Poofs", 8)
	ts.createEntry(t, ada.SessionToken, "1678", "Citrus Circuits", 10)

	rr := ts.request(http.MethodGet, "/api/v1/admin/summary", nil, lead.SessionToken)
	require.Equal(t, http.StatusOK, rr.Code)
	summary := decodeBody[response.Summary](t, rr)
	assert.Equal(t, 2, summary.TotalEntries)
	assert.Equal(t, 2, summary.TeamCount)
	require.NotNil(t, summary.BestDriver)
	assert.Equal(t, "1678", summary.BestDriver.TeamNumber)

	rr = ts.request(http.MethodGet, "/api/v1/admin/export", nil, lead.SessionToken)
	require.Equal(t, http.StatusOK, rr.Code)
	disposition := rr.Header().Get("Content-Disposition")
	assert.True(t, strings.HasPrefix(disposition, `attachment; filename="scouting_data_2024-03-15T09:`), disposition)
	export := decodeBody[response.Export](t, rr)
	assert.Equal(t, 2, export.TotalEntries)
	assert.Len(t, export.Entries, 2)
}

func TestAdminSetRole(t *testing.T) {
	ts := newTestServer(t)
	ada := ts.register(t, "ada@example.com", "Ada", "Lovelace")
	lead := ts.register(t, adminEmail, "Lead", "Mentor")

	rr := ts.request(http.MethodPatch, "/api/v1/admin/users/"+ada.User.UID+"/role", map[string]string{"role": "admin"}, lead.SessionToken)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "admin", decodeBody[response.User](t, rr).Role)

	// The same token now passes the admin gate since the role is reloaded per request
	rr = ts.request(http.MethodGet, "/api/v1/admin/users", nil, ada.SessionToken)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, decodeBody[response.UserList](t, rr).Users, 2)

	rr = ts.request(http.MethodPatch, "/api/v1/admin/users/"+ada.User.UID+"/role", map[string]string{"role": "owner"}, lead.SessionToken)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestMetricsRecordRouteTemplates(t *testing.T) {
	ts := newTestServer(t)
	ada := ts.register(t, "ada@example.com", "Ada", "Lovelace")
	ts.createEntry(t, ada.SessionToken, "254", "Poofs", 8)

	rec := httptest.NewRecorder()
	ts.app.Metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	assert.Contains(t, body, `route="/api/v1/entries"`)
	assert.Contains(t, body, `scout_entry_operations_total{op="create",result="ok"} 1`)
}
