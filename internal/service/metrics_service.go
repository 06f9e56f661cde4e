package service

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates the Prometheus collectors the scheduler exposes: generic
// HTTP instrumentation plus the generation-specific counters named in §11.
type MetricsService struct {
	registry *prometheus.Registry
	handler  http.Handler

	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	generationsTotal    *prometheus.CounterVec
	generationDuration  *prometheus.HistogramVec
	ilpTimeLimitHitTotal prometheus.Counter
}

// NewMetricsService registers the collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	generationsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_generations_total",
		Help: "Total number of schedule generation runs",
	}, []string{"algorithm", "outcome"})

	generationDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "schedule_generation_duration_seconds",
		Help:    "Duration of schedule generation runs",
		Buckets: prometheus.DefBuckets,
	}, []string{"algorithm"})

	ilpTimeLimitHitTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ilp_time_limit_hit_total",
		Help: "Total number of ILP selections that exhausted their time budget before proving optimality",
	})

	registry.MustRegister(requestDuration, requestTotal, generationsTotal, generationDuration, ilpTimeLimitHitTotal)

	return &MetricsService{
		registry:             registry,
		handler:              promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:      requestDuration,
		requestTotal:         requestTotal,
		generationsTotal:     generationsTotal,
		generationDuration:   generationDuration,
		ilpTimeLimitHitTotal: ilpTimeLimitHitTotal,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records generic request instrumentation.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveGeneration records one schedule generation run. outcome is one of "success",
// "empty_catalog", "no_feasible_candidates", or "error".
func (m *MetricsService) ObserveGeneration(algorithm, outcome string, duration time.Duration, timeLimitHit bool) {
	if m == nil {
		return
	}
	m.generationsTotal.WithLabelValues(algorithm, outcome).Inc()
	m.generationDuration.WithLabelValues(algorithm).Observe(duration.Seconds())
	if timeLimitHit {
		m.ilpTimeLimitHitTotal.Inc()
	}
}
