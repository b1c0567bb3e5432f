package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordEntryOperation(t *testing.T) {
	m := NewManager()

	m.RecordEntryOperation("create", nil)
	m.RecordEntryOperation("create", nil)
	m.RecordEntryOperation("create", errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.entryOperations.WithLabelValues("create", ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.entryOperations.WithLabelValues("create", ResultError)))
}

func TestManagersDoNotShareRegistries(t *testing.T) {
	a := NewManager()
	b := NewManager()

	a.RecordOrderFallback("list_all")

	assert.Equal(t, 1.0, testutil.ToFloat64(a.orderFallbacks.WithLabelValues("list_all")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.orderFallbacks.WithLabelValues("list_all")))
}

func TestMiddlewareLabelsByRouteTemplate(t *testing.T) {
	m := NewManager()
	router := mux.NewRouter()
	router.Use(m.Middleware)
	router.HandleFunc("/entries/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/entries/abc", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("/entries/{id}", "GET", "404")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := NewManager()
	m.RecordTeamLookup("hit")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `scout_team_lookups_total{result="hit"} 1`))
}
