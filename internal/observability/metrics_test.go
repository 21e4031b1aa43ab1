package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNewMetricsForTesting(t *testing.T) {
	m := NewMetricsForTesting()
	m.MalformedFields.WithLabelValues("PROPDMG").Inc()
	m.RecordsRead.Add(3)

	assert.InDelta(t, 1.0, testutil.ToFloat64(m.MalformedFields.WithLabelValues("PROPDMG")), 1e-9)
	assert.InDelta(t, 3.0, testutil.ToFloat64(m.RecordsRead), 1e-9)
}

func TestNewMetricsForTesting_Isolated(t *testing.T) {
	a := NewMetricsForTesting()
	b := NewMetricsForTesting()
	a.ReportsPublished.Inc()

	assert.InDelta(t, 1.0, testutil.ToFloat64(a.ReportsPublished), 1e-9)
	assert.InDelta(t, 0.0, testutil.ToFloat64(b.ReportsPublished), 1e-9)
}
