package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for sync operations.
type Metrics struct {
	PushesDispatched *prometheus.CounterVec
	PushesFailed     *prometheus.CounterVec
	SyncProgress     prometheus.Gauge
	UnsyncedRecords  prometheus.Gauge
}

// New registers and returns sync metrics collectors.
func New() *Metrics {
	return &Metrics{
		PushesDispatched: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "basecamp_sync_pushes_dispatched_total",
			Help: "Total number of webhook pushes handed to the network, labeled by action",
		}, []string{"action"}),
		PushesFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "basecamp_sync_pushes_failed_total",
			Help: "Total number of webhook pushes that failed to dispatch, labeled by action",
		}, []string{"action"}),
		SyncProgress: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "basecamp_sync_progress_percent",
			Help: "Progress of the most recent bulk sync, 0 to 100",
		}),
		UnsyncedRecords: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "basecamp_sync_unsynced_records",
			Help: "Registrations not yet dispatched to the remote service",
		}),
	}
}

func (m *Metrics) IncrementDispatched(action string) {
	m.PushesDispatched.WithLabelValues(action).Inc()
}

func (m *Metrics) IncrementFailed(action string) {
	m.PushesFailed.WithLabelValues(action).Inc()
}

func (m *Metrics) SetProgress(percent int) {
	m.SyncProgress.Set(float64(percent))
}

func (m *Metrics) SetUnsynced(count int) {
	m.UnsyncedRecords.Set(float64(count))
}
