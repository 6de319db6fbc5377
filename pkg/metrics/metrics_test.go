package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveHTTPRequest("GET", "/x", 200, time.Millisecond)
		m.ObserveDBQuery("select", time.Millisecond, nil)
		m.IncBookingsCreated("single", 1)
		m.IncBookingDateFailures(1)
		m.IncCascade("group", "cancelled", "ok")
		m.IncNotification("booking.created", "ok")
	})
}

func TestMetrics_Counters(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry(), "test")

	m.IncBookingsCreated("multi_day", 3)
	m.IncBookingsCreated("multi_day", 0)
	m.ObserveDBQuery("update", time.Millisecond, errors.New("boom"))
	m.IncNotification("booking.cancelled", "failed")

	assert.Equal(t, 3.0, testutil.ToFloat64(m.BookingsCreated.WithLabelValues("multi_day")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DBQueryErrors.WithLabelValues("update")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Notifications.WithLabelValues("booking.cancelled", "failed")))
}
