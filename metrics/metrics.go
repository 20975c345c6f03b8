package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for record numbering, resident deletion and
// the HTTP layer.
type Metrics struct {
	NumbersGenerated  *prometheus.CounterVec
	NumberCollisions  *prometheus.CounterVec
	NumberExhausted   *prometheus.CounterVec
	ResidentDeletions *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
}

// Default is registered against the global Prometheus registry and served on /metrics.
var Default = New(prometheus.DefaultRegisterer)

// New creates a Metrics instance registered on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		NumbersGenerated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "barangay_record_numbers_generated_total",
			Help: "Business numbers handed out, by record kind",
		}, []string{"kind"}),
		NumberCollisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "barangay_record_number_collisions_total",
			Help: "Candidate numbers rejected because they already existed",
		}, []string{"kind"}),
		NumberExhausted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "barangay_record_number_exhausted_total",
			Help: "Number generations that gave up after the attempt limit",
		}, []string{"kind"}),
		ResidentDeletions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "barangay_resident_deletions_total",
			Help: "Resident delete attempts by mode and outcome",
		}, []string{"mode", "outcome"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "barangay_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method", "route", "status"}),
	}
}

// IncrementGenerated records a number accepted for the given record kind.
func (m *Metrics) IncrementGenerated(kind string) {
	m.NumbersGenerated.WithLabelValues(kind).Inc()
}

// IncrementCollision records a candidate that was already taken.
func (m *Metrics) IncrementCollision(kind string) {
	m.NumberCollisions.WithLabelValues(kind).Inc()
}

// IncrementExhausted records a generation that hit the attempt limit.
func (m *Metrics) IncrementExhausted(kind string) {
	m.NumberExhausted.WithLabelValues(kind).Inc()
}

// IncrementResidentDeletion records the outcome of a resident delete.
// mode is "safe" or "force"; outcome is "committed", "blocked" or "failed".
func (m *Metrics) IncrementResidentDeletion(mode, outcome string) {
	m.ResidentDeletions.WithLabelValues(mode, outcome).Inc()
}

// ObserveRequest records the duration of an HTTP request.
// Call with time.Now() taken at the start of the request.
func (m *Metrics) ObserveRequest(method, route, status string, start time.Time) {
	m.RequestDuration.WithLabelValues(method, route, status).Observe(time.Since(start).Seconds())
}
