// Package metrics exposes Prometheus instrumentation for the relief service.
// Each Metrics value owns its registry so tests can create as many as they like.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	AlertsIngested     prometheus.Counter
	AlertsEvicted      prometheus.Counter
	AlertsAcknowledged prometheus.Counter
	AlertsActive       prometheus.Gauge

	// SOSPresses is labelled by outcome: activated, cancelled, ignored.
	SOSPresses *prometheus.CounterVec
	// SOSDispatches is labelled by result: success, failed.
	SOSDispatches *prometheus.CounterVec

	ToastsDropped prometheus.Counter

	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		AlertsIngested: f.NewCounter(prometheus.CounterOpts{
			Name: "relief_alerts_ingested_total",
			Help: "Alerts inserted into the alert store",
		}),
		AlertsEvicted: f.NewCounter(prometheus.CounterOpts{
			Name: "relief_alerts_evicted_total",
			Help: "Alerts evicted because the store was full",
		}),
		AlertsAcknowledged: f.NewCounter(prometheus.CounterOpts{
			Name: "relief_alerts_acknowledged_total",
			Help: "Alerts flipped from active to inactive",
		}),
		AlertsActive: f.NewGauge(prometheus.GaugeOpts{
			Name: "relief_alerts_active",
			Help: "Active alerts currently held",
		}),
		SOSPresses: f.NewCounterVec(prometheus.CounterOpts{
			Name: "relief_sos_presses_total",
			Help: "SOS button presses by outcome",
		}, []string{"outcome"}),
		SOSDispatches: f.NewCounterVec(prometheus.CounterOpts{
			Name: "relief_sos_dispatches_total",
			Help: "SOS dispatch attempts by result",
		}, []string{"result"}),
		ToastsDropped: f.NewCounter(prometheus.CounterOpts{
			Name: "relief_toasts_dropped_total",
			Help: "Toasts dropped because the notification queue was full",
		}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "relief_http_requests_total",
			Help: "HTTP requests by method, route and status",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "relief_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
