package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics("servicedesk")

	m.TicketCreated("assigned")
	m.TicketCreated("assigned")
	m.TicketCreated("pendent")
	m.StatusTransition("open", "being_handled")
	m.RecordRequest("/tickets", "POST", 201, 10*time.Millisecond)
	m.RecordError("/tickets", "POST", "NOT_ALLOWED")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ticketsCreated.WithLabelValues("assigned")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ticketsCreated.WithLabelValues("pendent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.statusTransitions.WithLabelValues("open", "being_handled")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestTotal.WithLabelValues("/tickets", "POST", "201")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errorTotal.WithLabelValues("/tickets", "POST", "NOT_ALLOWED")))
}

func TestMetrics_NilReceiver(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.TicketCreated("assigned")
		m.StatusTransition("open", "closed")
		m.RecordRequest("/", "GET", 200, time.Millisecond)
		m.RecordError("/", "GET", "INTERNAL_ERROR")
	})
}
