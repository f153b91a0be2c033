package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()
	m.RecordPosition("test")
	m.RecordPosition("test")
	m.RecordPosition("namespace")
	m.RecordDiscoveryFailure()
	m.RecordSpec("file")
	m.RecordReportFailure(ReasonMalformed)
	m.RecordResult("passed")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.positions.WithLabelValues("test")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.positions.WithLabelValues("namespace")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.discoveryFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.specs.WithLabelValues("file")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reportFailures.WithLabelValues(ReasonMalformed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.results.WithLabelValues("passed")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.RecordPosition("test")
	m.RecordDiscoveryFailure()
	m.RecordSpec("test")
	m.RecordReportFailure(ReasonShape)
	m.RecordResult("failed")
	assert.Nil(t, m.Registry())
	assert.NoError(t, m.WriteTextfile(filepath.Join(t.TempDir(), "unused.prom")))
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.RecordResult("failed")

	path := filepath.Join(t.TempDir(), "phpunitbridge.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `phpunitbridge_test_results_total{status="failed"} 1`))
}
