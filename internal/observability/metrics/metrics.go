package metrics

import "github.com/prometheus/client_golang/prometheus"

// ElementMetrics exposes counters/histograms for payment element operations.
// It satisfies element.Observer.
type ElementMetrics struct {
	operationsTotal  *prometheus.CounterVec
	operationLatency *prometheus.HistogramVec
}

func NewElementMetrics(reg prometheus.Registerer) *ElementMetrics {
	m := &ElementMetrics{
		operationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "payment_element",
			Name:      "operations_total",
			Help:      "Total payment element operations by outcome",
		}, []string{"operation", "status"}),
		operationLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "payment_element",
			Name:      "operation_seconds",
			Help:      "Latency of payment element operations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.operationsTotal, m.operationLatency)
	return m
}

func (m *ElementMetrics) ObserveOperation(operation, status string, seconds float64) {
	if m == nil {
		return
	}
	m.operationsTotal.WithLabelValues(operation, status).Inc()
	m.operationLatency.WithLabelValues(operation).Observe(seconds)
}

// HandoffMetrics counts payment methods received for downstream processing.
type HandoffMetrics struct {
	handoffTotal *prometheus.CounterVec
}

func NewHandoffMetrics(reg prometheus.Registerer) *HandoffMetrics {
	m := &HandoffMetrics{
		handoffTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "payment_element",
			Subsystem: "handoff",
			Name:      "total",
			Help:      "Total payment method handoffs by outcome",
		}, []string{"status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.handoffTotal)
	return m
}

func (m *HandoffMetrics) ObserveHandoff(status string) {
	if m == nil {
		return
	}
	m.handoffTotal.WithLabelValues(status).Inc()
}
