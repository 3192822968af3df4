// Package metrics provides Prometheus metrics for the triage service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Model service metrics
	ModelCallsTotal    *prometheus.CounterVec
	ModelCallDuration  *prometheus.HistogramVec
	ParseFallbackTotal prometheus.Counter

	// Mail import metrics
	ImportsTotal          *prometheus.CounterVec
	ImportedMessagesTotal prometheus.Counter
}

// New creates and registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	f := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "triage_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "triage_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		ModelCallsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "triage_model_calls_total",
				Help: "Total number of model service calls",
			},
			[]string{"operation", "status"},
		),
		ModelCallDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "triage_model_call_duration_seconds",
				Help:    "Duration of model service calls in seconds",
				Buckets: []float64{.25, .5, 1, 2.5, 5, 10, 20, 40, 60},
			},
			[]string{"operation"},
		),
		ParseFallbackTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "triage_parse_fallback_total",
				Help: "Model replies that could not be parsed into suggestions",
			},
		),
		ImportsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "triage_mail_imports_total",
				Help: "Total number of mail import attempts",
			},
			[]string{"status"},
		),
		ImportedMessagesTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "triage_imported_messages_total",
				Help: "Total number of message summaries imported from the mail provider",
			},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// RecordHTTPRequest records one served request.
func (m *Metrics) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordModelCall records one call to the model service.
func (m *Metrics) RecordModelCall(operation string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	m.ModelCallsTotal.WithLabelValues(operation, status(err)).Inc()
	m.ModelCallDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordParseFallback counts a reply replaced by the error placeholder.
func (m *Metrics) RecordParseFallback() {
	if m == nil {
		return
	}
	m.ParseFallbackTotal.Inc()
}

// RecordImport records one completed or failed mail import.
func (m *Metrics) RecordImport(messages int, err error) {
	if m == nil {
		return
	}
	m.ImportsTotal.WithLabelValues(status(err)).Inc()
	m.ImportedMessagesTotal.Add(float64(messages))
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
