package usecase

// MetricsSink receives operational counters from the usecases. It is injected
// at construction so the core stays testable without any metrics backend; use
// NoopMetrics() when none is attached.
type MetricsSink interface {
	IncBookingOperation(operation, status string)
	IncPaymentOperation(operation, status string)
	IncDoctorAssignment(status string)
	IncNotification(kind, status string)
	ObserveOperation(operation string, seconds float64)
}

type noopMetrics struct{}

func (noopMetrics) IncBookingOperation(string, string) {}
func (noopMetrics) IncPaymentOperation(string, string) {}
func (noopMetrics) IncDoctorAssignment(string)         {}
func (noopMetrics) IncNotification(string, string)     {}
func (noopMetrics) ObserveOperation(string, float64)   {}

// NoopMetrics returns a MetricsSink that discards everything.
func NoopMetrics() MetricsSink {
	return noopMetrics{}
}
