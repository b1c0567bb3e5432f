package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itobot/scout/internal/model"
	"github.com/itobot/scout/internal/testutil"
	"github.com/itobot/scout/internal/web/middleware"
	"github.com/itobot/scout/internal/web/templates/layout"
)

// nextFlash replays the cookies set by rr into a request through Flash and
// returns what the next page would show
func nextFlash(t *testing.T, rr *httptest.ResponseRecorder) *layout.FlashMessage {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/entries", nil)
	for _, c := range rr.Result().Cookies() {
		req.AddCookie(c)
	}

	var flash *layout.FlashMessage
	h := middleware.Flash()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		flash = middleware.GetFlash(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), req)
	return flash
}

func TestFlashSignedInKeepsNonASCIIName(t *testing.T) {
	rr := httptest.NewRecorder()
	middleware.FlashSignedIn(rr, &model.UserProfile{Name: "José", Surname: "Núñez"})

	flash := nextFlash(t, rr)
	require.NotNil(t, flash)
	assert.Equal(t, middleware.FlashSuccess, flash.Type)
	assert.Equal(t, "Welcome back, José Núñez!", flash.Message)
}

func TestFlashMessageMayContainColons(t *testing.T) {
	rr := httptest.NewRecorder()
	middleware.SetFlash(rr, middleware.FlashError, "Match Q1: entry rejected; try again")

	flash := nextFlash(t, rr)
	require.NotNil(t, flash)
	assert.Equal(t, middleware.FlashError, flash.Type)
	assert.Equal(t, "Match Q1: entry rejected; try again", flash.Message)
}

func TestFlashUnknownKindFallsBackToInfo(t *testing.T) {
	rr := httptest.NewRecorder()
	middleware.SetFlash(rr, `x" onclick="alert(1)`, "hello")

	flash := nextFlash(t, rr)
	require.NotNil(t, flash)
	assert.Equal(t, middleware.FlashInfo, flash.Type)
	assert.Equal(t, "hello", flash.Message)
}

func TestFlashAbsent(t *testing.T) {
	assert.Nil(t, nextFlash(t, httptest.NewRecorder()))
}

func TestFlashClearsCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/entries", nil)
	req.AddCookie(&http.Cookie{Name: "flash", Value: "info%3Ahi"})

	rr := httptest.NewRecorder()
	middleware.Flash()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).ServeHTTP(rr, req)

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "flash", cookies[0].Name)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestRecoveryRendersErrorPageWithRequestID(t *testing.T) {
	logger, buf := testutil.BufferLogger()

	panicky := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
	h := middleware.Recovery(logger)(middleware.Logging(logger)(panicky))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/compare", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rr.Body.String()))
	require.NoError(t, err)
	assert.Contains(t, doc.Find("h1").Text(), "500")
	assert.Equal(t, rr.Header().Get("X-Request-ID"), doc.Find("#request-id").Text())
	href, _ := doc.Find("a").Attr("href")
	assert.Equal(t, "/entries", href)

	assert.Contains(t, buf.String(), "panic recovered")
	assert.Contains(t, buf.String(), `"surface":"web"`)
}

func TestLoggingTagsWebSurface(t *testing.T) {
	logger, buf := testutil.BufferLogger()

	h := middleware.Logging(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/entries", nil))

	assert.Contains(t, buf.String(), `"surface":"web"`)
	assert.Contains(t, buf.String(), `"path":"/entries"`)
}
