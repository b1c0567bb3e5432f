// Package metrics exposes Prometheus metrics for the scouting service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Entry operation results
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Manager owns a private registry and every metric the service records
type Manager struct {
	namespace string
	buckets   []float64
	registry  *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	entryOperations *prometheus.CounterVec
	orderFallbacks  *prometheus.CounterVec
	teamLookups     *prometheus.CounterVec
}

// Option configures a Manager
type Option func(*Manager)

// WithNamespace overrides the metric namespace
func WithNamespace(ns string) Option {
	return func(m *Manager) { m.namespace = ns }
}

// WithHistogramBuckets overrides the latency buckets (seconds)
func WithHistogramBuckets(b []float64) Option {
	return func(m *Manager) { m.buckets = b }
}

// NewManager creates a Manager registered on a fresh registry
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "scout",
		buckets:   prometheus.DefBuckets,
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}

	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by route, method and status code",
	}, []string{"route", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration in seconds",
		Buckets:   m.buckets,
	}, []string{"route", "method"})

	m.entryOperations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "entry_operations_total",
		Help:      "Entry repository operations by operation and result",
	}, []string{"op", "result"})

	m.orderFallbacks = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "entry_order_fallbacks_total",
		Help:      "Listings re-run unordered because the store rejected the ordering",
	}, []string{"op"})

	m.teamLookups = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "team_lookups_total",
		Help:      "Team name lookups by result",
	}, []string{"result"})

	return m
}

// Registry exposes the underlying registry (tests and custom collectors)
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordEntryOperation counts one repository call
func (m *Manager) RecordEntryOperation(op string, err error) {
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	m.entryOperations.WithLabelValues(op, result).Inc()
}

// RecordOrderFallback counts a listing that had to be sorted locally
func (m *Manager) RecordOrderFallback(op string) {
	m.orderFallbacks.WithLabelValues(op).Inc()
}

// RecordTeamLookup counts a lookup as "hit", "miss" or "error"
func (m *Manager) RecordTeamLookup(result string) {
	m.teamLookups.WithLabelValues(result).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records request counts and latency, labelled by the mux route template
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := "unmatched"
		if cur := mux.CurrentRoute(r); cur != nil {
			if tpl, err := cur.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		m.httpRequests.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
		m.httpRequestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
