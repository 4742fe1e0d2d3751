package metrics

import (
	"bazaar/config"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const subsystem = "booking"

// BookingMetrics exposes counters and histograms for the booking flow.
// A nil *BookingMetrics is valid and records nothing.
type BookingMetrics struct {
	quotesTotal      *prometheus.CounterVec
	submissionsTotal *prometheus.CounterVec
	slotsServed      *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec
}

func New(cfg *config.Config) *BookingMetrics {
	if !cfg.Metrics.Enable {
		return nil
	}

	return NewBookingMetrics(cfg.Metrics.Namespace, nil)
}

func NewBookingMetrics(namespace string, reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		quotesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "quotes_total",
			Help:      "Total price quotes calculated, by urgency tier",
		}, []string{"tier", "override"}),
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "submissions_total",
			Help:      "Total booking submissions, by outcome",
		}, []string{"outcome"}),
		slotsServed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "slots_served_total",
			Help:      "Total slots returned to clients after filtering",
		}, []string{"filter"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "upstream_latency_seconds",
			Help:      "Latency of booking API calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "status"}),
	}

	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	reg.MustRegister(m.quotesTotal, m.submissionsTotal, m.slotsServed, m.upstreamLatency)

	return m
}

func (m *BookingMetrics) ObserveQuote(tier string, override bool) {
	if m == nil {
		return
	}

	m.quotesTotal.WithLabelValues(tier, strconv.FormatBool(override)).Inc()
}

func (m *BookingMetrics) ObserveSubmission(outcome string) {
	if m == nil {
		return
	}

	m.submissionsTotal.WithLabelValues(outcome).Inc()
}

func (m *BookingMetrics) ObserveSlotsServed(filter string, count int) {
	if m == nil {
		return
	}

	m.slotsServed.WithLabelValues(filter).Add(float64(count))
}

func (m *BookingMetrics) ObserveUpstream(operation string, status int, seconds float64) {
	if m == nil {
		return
	}

	m.upstreamLatency.WithLabelValues(operation, strconv.Itoa(status)).Observe(seconds)
}
