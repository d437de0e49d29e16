// Package metrics defines the Prometheus collectors exported at /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "seatboard"

var histogramBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5}

// Metrics groups every collector the server records to.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	requestTotal     *prometheus.CounterVec
	requestLatency   *prometheus.HistogramVec
	rateLimitHits    *prometheus.CounterVec
	dashboardBuilds  *prometheus.CounterVec
	dashboardLatency prometheus.Histogram
	dashboardRecords prometheus.Histogram
	anomalies        prometheus.Counter
	logins           *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Count of processed HTTP requests",
		}, []string{"method", "route", "status"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latency distribution of HTTP handlers",
			Buckets:   histogramBuckets,
		}, []string{"method", "route", "status"}),
		rateLimitHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "rate_limit_hits_total",
			Help:      "Number of rate-limited responses",
		}, []string{"scope"}),
		dashboardBuilds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dashboard",
			Name:      "builds_total",
			Help:      "Dashboard payload builds by outcome",
		}, []string{"outcome"}),
		dashboardLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "dashboard",
			Name:      "build_duration_seconds",
			Help:      "Time spent building a dashboard payload",
			Buckets:   histogramBuckets,
		}),
		dashboardRecords: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "dashboard",
			Name:      "window_records",
			Help:      "Posts in the 24h window per build",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
		anomalies: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dashboard",
			Name:      "anomalies_total",
			Help:      "Anomalies detected across dashboard builds",
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "admin",
			Name:      "logins_total",
			Help:      "Admin login attempts by result",
		}, []string{"result"}),
	}

	reg.MustRegister(
		m.requestTotal, m.requestLatency, m.rateLimitHits,
		m.dashboardBuilds, m.dashboardLatency, m.dashboardRecords, m.anomalies,
		m.logins,
	)
	return m
}

func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	labels := prometheus.Labels{
		"method": method,
		"route":  route,
		"status": strconv.Itoa(status),
	}
	m.requestTotal.With(labels).Inc()
	m.requestLatency.With(labels).Observe(d.Seconds())
}

func (m *Metrics) RateLimited(scope string) {
	if m == nil {
		return
	}
	m.rateLimitHits.WithLabelValues(scope).Inc()
}

// ObserveDashboard records one successful build.
func (m *Metrics) ObserveDashboard(d time.Duration, records, anomalies int) {
	if m == nil {
		return
	}
	m.dashboardBuilds.WithLabelValues("ok").Inc()
	m.dashboardLatency.Observe(d.Seconds())
	m.dashboardRecords.Observe(float64(records))
	m.anomalies.Add(float64(anomalies))
}

func (m *Metrics) DashboardFailed() {
	if m == nil {
		return
	}
	m.dashboardBuilds.WithLabelValues("error").Inc()
}

// Login records a login attempt; result is "ok", "rejected" or "error".
func (m *Metrics) Login(result string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(result).Inc()
}
