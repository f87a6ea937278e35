// Package metrics records Prometheus metrics for gateway calls, assistant jobs and exports.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder holds the service metrics. A nil *Recorder records nothing.
type Recorder struct {
	gatewayRequests *prometheus.CounterVec
	gatewayDuration *prometheus.HistogramVec
	jobsTotal       *prometheus.CounterVec
	jobDuration     *prometheus.HistogramVec
	exportsTotal    *prometheus.CounterVec
	exportDuration  prometheus.Histogram
	activeSessions  prometheus.Gauge
}

// NewRecorder registers the metrics with reg.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		gatewayRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assistant_gateway_requests_total",
				Help: "Total number of assistant gateway requests by action and status",
			},
			[]string{"action", "status"},
		),
		gatewayDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "assistant_gateway_request_duration_seconds",
				Help:    "Duration of assistant gateway requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"action"},
		),
		jobsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assistant_jobs_total",
				Help: "Total number of finished assistant jobs by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		jobDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "assistant_job_duration_seconds",
				Help:    "Duration of assistant jobs in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		exportsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "document_exports_total",
				Help: "Total number of document exports by status",
			},
			[]string{"status"},
		),
		exportDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "document_export_duration_seconds",
				Help:    "Duration of document exports in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		activeSessions: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "sessions_active",
				Help: "Number of live visitor sessions",
			},
		),
	}
}

var (
	defaultOnce     sync.Once
	defaultRecorder *Recorder
)

// Default returns a recorder registered with the default Prometheus registry.
func Default() *Recorder {
	defaultOnce.Do(func() {
		defaultRecorder = NewRecorder(prometheus.DefaultRegisterer)
	})
	return defaultRecorder
}

func status(ok bool) string {
	if ok {
		return "success"
	}
	return "error"
}

// ObserveGateway records one gateway call.
func (r *Recorder) ObserveGateway(action string, ok bool, duration time.Duration) {
	if r == nil {
		return
	}
	r.gatewayRequests.WithLabelValues(action, status(ok)).Inc()
	r.gatewayDuration.WithLabelValues(action).Observe(duration.Seconds())
}

// ObserveJob records a finished assistant job. Outcome is success, error or discarded.
func (r *Recorder) ObserveJob(kind, outcome string, duration time.Duration) {
	if r == nil {
		return
	}
	r.jobsTotal.WithLabelValues(kind, outcome).Inc()
	r.jobDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// ObserveExport records one export attempt.
func (r *Recorder) ObserveExport(ok bool, duration time.Duration) {
	if r == nil {
		return
	}
	r.exportsTotal.WithLabelValues(status(ok)).Inc()
	r.exportDuration.Observe(duration.Seconds())
}

// SetActiveSessions sets the live session gauge.
func (r *Recorder) SetActiveSessions(n int) {
	if r == nil {
		return
	}
	r.activeSessions.Set(float64(n))
}
