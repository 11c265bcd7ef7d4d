package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for registration lifecycle operations.
type Metrics struct {
	RegistrationsCreated prometheus.Counter
	StatusTransitions    *prometheus.CounterVec
	RegistrationsCleared prometheus.Counter
}

// New registers and returns registration metrics collectors.
func New() *Metrics {
	return &Metrics{
		RegistrationsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "basecamp_registrations_created_total",
			Help: "Total number of registrations accepted",
		}),
		StatusTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "basecamp_registration_status_transitions_total",
			Help: "Total number of status updates applied, labeled by target status",
		}, []string{"status"}),
		RegistrationsCleared: promauto.NewCounter(prometheus.CounterOpts{
			Name: "basecamp_registrations_cleared_total",
			Help: "Total number of clear-all operations performed",
		}),
	}
}

func (m *Metrics) IncrementCreated() {
	m.RegistrationsCreated.Inc()
}

func (m *Metrics) IncrementTransition(status string) {
	m.StatusTransitions.WithLabelValues(status).Inc()
}

func (m *Metrics) IncrementCleared() {
	m.RegistrationsCleared.Inc()
}
