package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/abhisek/studyplan/internal/narration"
	"github.com/abhisek/studyplan/internal/schedule"
)

// Metrics holds the Prometheus collectors exposed on /metrics.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	schedules       *prometheus.CounterVec
	coverage        prometheus.Histogram
	atRisk          prometheus.Histogram
	narratedDays    *prometheus.CounterVec
}

// NewMetrics registers the collectors on a private registry.
func NewMetrics() *Metrics {
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

	schedules := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "studyplan_schedules_total",
		Help: "Schedules planned, by mode",
	}, []string{"mode"})

	coverage := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "studyplan_schedule_coverage_ratio",
		Help:    "Share of estimated hours a schedule covers",
		Buckets: prometheus.LinearBuckets(0.1, 0.1, 10),
	})

	atRisk := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "studyplan_schedule_at_risk_chapters",
		Help:    "Chapters left unfinished at the horizon",
		Buckets: []float64{0, 1, 2, 5, 10, 25, 50},
	})

	narratedDays := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "studyplan_narration_days_total",
		Help: "Days sent for narration, by result",
	}, []string{"result"})

	registry.MustRegister(
		requestDuration, requestTotal, schedules, coverage, atRisk, narratedDays,
		collectors.NewGoCollector(),
	)

	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		schedules:       schedules,
		coverage:        coverage,
		atRisk:          atRisk,
		narratedDays:    narratedDays,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records one served request.
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveSchedule records a planned schedule and its narration report.
func (m *Metrics) ObserveSchedule(res *schedule.Result, rep *narration.Report) {
	if m == nil || res == nil {
		return
	}
	m.schedules.WithLabelValues(string(res.Summary.Mode)).Inc()
	m.coverage.Observe(res.Summary.Coverage)
	m.atRisk.Observe(float64(len(res.Summary.AtRisk)))
	if rep != nil {
		m.narratedDays.WithLabelValues("narrated").Add(float64(rep.Narrated))
		m.narratedDays.WithLabelValues("failed").Add(float64(rep.Failed))
		m.narratedDays.WithLabelValues("skipped").Add(float64(rep.Skipped))
	}
}
