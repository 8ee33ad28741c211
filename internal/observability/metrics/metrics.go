package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "leadflow"

// ConfirmationMetrics exposes counters/histograms for the confirmation flow.
type ConfirmationMetrics struct {
	contentTotal    *prometheus.CounterVec
	deliveryTotal   *prometheus.CounterVec
	deliveryLatency *prometheus.HistogramVec
}

func NewConfirmationMetrics(reg prometheus.Registerer) *ConfirmationMetrics {
	m := &ConfirmationMetrics{
		contentTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "confirmation",
			Name:      "content_total",
			Help:      "Confirmation messages by content source (ai or fallback)",
		}, []string{"source"}),
		deliveryTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "confirmation",
			Name:      "delivery_total",
			Help:      "Confirmation email deliveries by provider and status",
		}, []string{"provider", "status"}),
		deliveryLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "confirmation",
			Name:      "duration_seconds",
			Help:      "End-to-end latency of a confirmation (generation, render, delivery)",
			Buckets:   prometheus.DefBuckets,
		}, []string{"status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.contentTotal, m.deliveryTotal, m.deliveryLatency)
	return m
}

func (m *ConfirmationMetrics) ObserveContent(source string) {
	if m == nil {
		return
	}
	m.contentTotal.WithLabelValues(source).Inc()
}

func (m *ConfirmationMetrics) ObserveDelivery(provider, status string) {
	if m == nil {
		return
	}
	m.deliveryTotal.WithLabelValues(provider, status).Inc()
}

func (m *ConfirmationMetrics) ObserveDuration(status string, seconds float64) {
	if m == nil {
		return
	}
	m.deliveryLatency.WithLabelValues(status).Observe(seconds)
}

// LeadMetrics counts form submissions by outcome.
type LeadMetrics struct {
	submissions *prometheus.CounterVec
}

func NewLeadMetrics(reg prometheus.Registerer) *LeadMetrics {
	m := &LeadMetrics{
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "leads",
			Name:      "submissions_total",
			Help:      "Lead form submissions by outcome",
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissions)
	return m
}

func (m *LeadMetrics) ObserveSubmission(outcome string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(outcome).Inc()
}
