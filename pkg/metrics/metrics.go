package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all application metrics
type Metrics struct {
	// Backend API metrics
	BackendRequests *prometheus.CounterVec
	BackendLatency  *prometheus.HistogramVec

	// Local storage metrics
	StorageOperations *prometheus.CounterVec
	StorageLatency    *prometheus.HistogramVec

	// Panel snapshot metrics
	StaleResponses *prometheus.CounterVec
	ActiveSessions prometheus.Gauge
}

// New creates the metrics and registers them with reg. A nil registerer skips registration.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		BackendRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backend",
			Name:      "requests_total",
			Help:      "Total number of calls made to the clinic backend",
		}, []string{"operation", "outcome"}),
		BackendLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "backend",
			Name:      "request_duration_seconds",
			Help:      "Duration of calls made to the clinic backend",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"operation"}),
		StorageOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "operations_total",
			Help:      "Total number of local storage operations",
		}, []string{"driver", "operation", "status"}),
		StorageLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "operation_duration_seconds",
			Help:      "Duration of local storage operations",
			Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5},
		}, []string{"driver", "operation"}),
		StaleResponses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "panel",
			Name:      "stale_responses_total",
			Help:      "Fetch results discarded because a newer result was already applied",
		}, []string{"panel"}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "logins_active",
			Help:      "Sessions opened minus live sessions logged out since start",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.BackendRequests,
			m.BackendLatency,
			m.StorageOperations,
			m.StorageLatency,
			m.StaleResponses,
			m.ActiveSessions,
		)
	}
	return m
}

// ObserveBackend records one backend call.
func (m *Metrics) ObserveBackend(operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.BackendRequests.WithLabelValues(operation, outcome).Inc()
	m.BackendLatency.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// ObserveStorage records one storage operation.
func (m *Metrics) ObserveStorage(driver, operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.StorageOperations.WithLabelValues(driver, operation, status).Inc()
	m.StorageLatency.WithLabelValues(driver, operation).Observe(time.Since(start).Seconds())
}

// StaleDiscarded counts a fetch result that lost the race to a newer one.
func (m *Metrics) StaleDiscarded(panel string) {
	if m == nil {
		return
	}
	m.StaleResponses.WithLabelValues(panel).Inc()
}
