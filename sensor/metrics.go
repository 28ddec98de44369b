package sensor

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/moffa90/go-id809/protocol"
)

// Metrics holds the sensor's Prometheus collectors. A nil *Metrics records
// nothing.
type Metrics struct {
	Exchanges        *prometheus.CounterVec   // labels: command, result
	ExchangeDuration *prometheus.HistogramVec // labels: command
	Enrollments      *prometheus.CounterVec   // labels: result
	Verifications    *prometheus.CounterVec   // labels: result
}

// NewMetrics creates the sensor collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Exchanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "id809_exchanges_total",
			Help: "Command exchanges by command and result.",
		}, []string{"command", "result"}),
		ExchangeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "id809_exchange_duration_seconds",
			Help:    "Duration of command exchanges including settle time.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"command"}),
		Enrollments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "id809_enrollments_total",
			Help: "Enrollment attempts by result.",
		}, []string{"result"}),
		Verifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "id809_verifications_total",
			Help: "Verification attempts by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(m.Exchanges, m.ExchangeDuration, m.Enrollments, m.Verifications)
	return m
}

func (m *Metrics) observeExchange(command, result string, seconds float64) {
	if m == nil {
		return
	}
	m.Exchanges.WithLabelValues(command, result).Inc()
	m.ExchangeDuration.WithLabelValues(command).Observe(seconds)
}

func (m *Metrics) enrollment(result string) {
	if m == nil {
		return
	}
	m.Enrollments.WithLabelValues(result).Inc()
}

func (m *Metrics) verification(result string) {
	if m == nil {
		return
	}
	m.Verifications.WithLabelValues(result).Inc()
}

// resultLabel classifies an exchange error for the result label.
func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case protocol.IsStatusError(err):
		return "status"
	case errors.Is(err, ErrDeviceNotResponding):
		return "busy"
	case protocol.IsFrameError(err):
		return "frame"
	default:
		return "transport"
	}
}
