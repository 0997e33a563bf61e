package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollector_Counters(t *testing.T) {
	c := NewCollector()

	c.RecordOperation("create_client", OutcomeOK)
	c.RecordOperation("create_client", OutcomeOK)
	c.RecordOperation("create_client", OutcomeInvalid)
	c.RecordAccountCreated("CHECKING")
	c.RecordSuspicious("high_amount", 3)
	c.RecordSuspicious("high_amount", 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.operations.WithLabelValues("create_client", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.operations.WithLabelValues("create_client", OutcomeInvalid)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.accountsCreated.WithLabelValues("CHECKING")))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.suspicious.WithLabelValues("high_amount")))
}

func TestCollector_ObserveRequest(t *testing.T) {
	c := NewCollector()
	c.ObserveRequest("GET", 200, 10*time.Millisecond)

	assert.Equal(t, 1, testutil.CollectAndCount(c.requestDuration))
}

func TestCollector_NilIsNoop(t *testing.T) {
	var c *Collector

	assert.NotPanics(t, func() {
		c.RecordOperation("create_client", OutcomeOK)
		c.RecordAccountCreated("SAVINGS")
		c.RecordSuspicious("high_frequency", 2)
		c.ObserveRequest("POST", 201, time.Millisecond)
	})
}
