package metrics_test

import (
	"bazaar/infras/metrics"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewBookingMetrics("bazaar_test", reg)

	m.ObserveQuote("urgent", false)
	m.ObserveQuote("urgent", false)
	m.ObserveSubmission("submitted")
	m.ObserveSlotsServed("today", 3)
	m.ObserveUpstream("get_slots", 200, 0.12)

	count, err := testutil.GatherAndCount(reg, "bazaar_test_booking_quotes_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = testutil.GatherAndCount(reg, "bazaar_test_booking_upstream_latency_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestBookingMetricsNilSafe(t *testing.T) {
	var m *metrics.BookingMetrics

	assert.NotPanics(t, func() {
		m.ObserveQuote("normal", true)
		m.ObserveSubmission("failed")
		m.ObserveSlotsServed("all", 1)
		m.ObserveUpstream("create_booking", 503, 0.5)
	})
}
