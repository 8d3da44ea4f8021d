package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the booking and checkout flows.
type BookingMetrics struct {
	availabilityTotal *prometheus.CounterVec
	submissionTotal   *prometheus.CounterVec
	checkoutTotal     *prometheus.CounterVec
	submissionLatency *prometheus.HistogramVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		availabilityTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "skinsociete",
			Subsystem: "booking",
			Name:      "availability_total",
			Help:      "Availability lookups by slot source",
		}, []string{"source"}),
		submissionTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "skinsociete",
			Subsystem: "booking",
			Name:      "submission_total",
			Help:      "Booking submissions by outcome category",
		}, []string{"outcome"}),
		checkoutTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "skinsociete",
			Subsystem: "checkout",
			Name:      "sessions_total",
			Help:      "Checkout sessions created by provider",
		}, []string{"provider", "status"}),
		submissionLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "skinsociete",
			Subsystem: "booking",
			Name:      "submission_latency_seconds",
			Help:      "Latency of booking submission round trips",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.availabilityTotal, m.submissionTotal, m.checkoutTotal, m.submissionLatency)
	return m
}

func (m *BookingMetrics) ObserveAvailability(source string) {
	if m == nil {
		return
	}
	m.availabilityTotal.WithLabelValues(source).Inc()
}

func (m *BookingMetrics) ObserveSubmission(outcome string) {
	if m == nil {
		return
	}
	m.submissionTotal.WithLabelValues(outcome).Inc()
}

func (m *BookingMetrics) ObserveCheckout(provider, status string) {
	if m == nil {
		return
	}
	m.checkoutTotal.WithLabelValues(provider, status).Inc()
}

func (m *BookingMetrics) ObserveSubmissionLatency(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.submissionLatency.WithLabelValues(outcome).Observe(seconds)
}
