package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	MetricsNamespace       = "githubprs"
	MetricsSubsystemHTTP   = "http"
	MetricsSubsystemSearch = "search"
)

// Metrics instruments the API and the upstream search calls. It satisfies
// github.Observer so the client can report every page it fetches.
type Metrics struct {
	registry *prometheus.Registry

	apiTime *prometheus.HistogramVec

	searchPagesTotal *prometheus.CounterVec
	searchItemsTotal prometheus.Counter
	searchPageTime   prometheus.Histogram
}

// NewMetrics creates a collector with its own registry.
func NewMetrics() *Metrics {
	m := &Metrics{}

	m.registry = prometheus.NewRegistry()
	m.registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{
		Namespace: MetricsNamespace,
	}))
	m.registry.MustRegister(collectors.NewGoCollector())

	m.apiTime = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: MetricsNamespace,
			Subsystem: MetricsSubsystemHTTP,
			Name:      "request_duration_seconds",
			Help:      "Time to handle an API request.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"handler", "method", "status_code"},
	)
	m.registry.MustRegister(m.apiTime)

	m.searchPagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: MetricsNamespace,
			Subsystem: MetricsSubsystemSearch,
			Name:      "pages_total",
			Help:      "Search pages requested from GitHub, by response status.",
		},
		[]string{"status_code"},
	)
	m.registry.MustRegister(m.searchPagesTotal)

	m.searchItemsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Subsystem: MetricsSubsystemSearch,
		Name:      "items_total",
		Help:      "Search items received from GitHub.",
	})
	m.registry.MustRegister(m.searchItemsTotal)

	m.searchPageTime = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: MetricsNamespace,
		Subsystem: MetricsSubsystemSearch,
		Name:      "page_duration_seconds",
		Help:      "Time to fetch one search page.",
		Buckets:   prometheus.DefBuckets,
	})
	m.registry.MustRegister(m.searchPageTime)

	return m
}

// GetRegistry returns the registry backing the collector.
func (m *Metrics) GetRegistry() *prometheus.Registry {
	return m.registry
}

// ObservePage records one upstream page request. status 0 means the
// request failed before a response arrived.
func (m *Metrics) ObservePage(status int, items int, elapsed time.Duration) {
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	m.searchPagesTotal.WithLabelValues(code).Inc()
	m.searchItemsTotal.Add(float64(items))
	m.searchPageTime.Observe(elapsed.Seconds())
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware times every request, labelled by chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		handler := "unknown"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				handler = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.apiTime.WithLabelValues(handler, r.Method, strconv.Itoa(status)).Observe(time.Since(start).Seconds())
	})
}
