// Package metrics defines the Prometheus collectors exported by the matcher.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeOK         = "ok"
	OutcomeFetchError = "fetch_error"
	OutcomeShapeError = "shape_error"

	CacheHit  = "hit"
	CacheMiss = "miss"
)

var (
	UpstreamFetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matcher_upstream_fetches_total",
			Help: "Upstream dataset fetches by dataset and outcome",
		},
		[]string{"dataset", "outcome"},
	)
	CacheRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matcher_cache_requests_total",
			Help: "Dataset cache lookups by dataset and result",
		},
		[]string{"dataset", "result"},
	)
	IntentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matcher_intents_total",
			Help: "Resolved conversation intents",
		},
		[]string{"intent"},
	)
	GenerationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "matcher_generation_duration_seconds",
			Help:    "Generation step latency by provider and outcome",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40},
		},
		[]string{"provider", "outcome"},
	)
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matcher_http_requests_total",
			Help: "HTTP requests by route, method and status",
		},
		[]string{"route", "method", "status"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "matcher_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"route", "method"},
	)
)

// Register adds all collectors to reg.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		UpstreamFetchesTotal,
		CacheRequestsTotal,
		IntentsTotal,
		GenerationDuration,
		HTTPRequestsTotal,
		HTTPRequestDuration,
	}

	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}

	return nil
}

// ObserveGeneration records one generation step call.
func ObserveGeneration(provider string, started time.Time, err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = "error"
	}
	GenerationDuration.WithLabelValues(provider, outcome).Observe(time.Since(started).Seconds())
}

// HTTPMiddleware records request counts and latency per chi route pattern.
func HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := ""
		if rc := chi.RouteContext(r.Context()); rc != nil {
			route = rc.RoutePattern()
		}
		if route == "" {
			route = r.URL.Path
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		HTTPRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		HTTPRequestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
