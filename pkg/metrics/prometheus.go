package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder is the prometheus-backed metrics sink handed to the usecases.
type Recorder struct {
	bookingOperations *prometheus.CounterVec
	paymentOperations *prometheus.CounterVec
	doctorAssignments *prometheus.CounterVec
	notifications     *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
}

// NewRecorder creates prometheus metrics under the given namespace.
func NewRecorder(namespace string) *Recorder {
	return &Recorder{
		bookingOperations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_operations_total",
			Help:      "Total number of booking operations",
		}, []string{"operation", "status"}),
		paymentOperations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_operations_total",
			Help:      "Total number of payment operations",
		}, []string{"operation", "status"}),
		doctorAssignments: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "doctor_assignments_total",
			Help:      "Total number of doctor assignments",
		}, []string{"status"}),
		notifications: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Total number of notifications sent",
		}, []string{"type", "status"}),
		operationDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of booking operations",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10},
		}, []string{"operation"}),
	}
}

func (r *Recorder) IncBookingOperation(operation, status string) {
	r.bookingOperations.WithLabelValues(operation, status).Inc()
}

func (r *Recorder) IncPaymentOperation(operation, status string) {
	r.paymentOperations.WithLabelValues(operation, status).Inc()
}

func (r *Recorder) IncDoctorAssignment(status string) {
	r.doctorAssignments.WithLabelValues(status).Inc()
}

func (r *Recorder) IncNotification(kind, status string) {
	r.notifications.WithLabelValues(kind, status).Inc()
}

func (r *Recorder) ObserveOperation(operation string, seconds float64) {
	r.operationDuration.WithLabelValues(operation).Observe(seconds)
}
