// Package metrics counts adapter outcomes in a prometheus registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every metric name.
const Namespace = "phpunitbridge"

// Report failure reasons.
const (
	ReasonUnavailable = "unavailable"
	ReasonMalformed   = "malformed"
	ReasonShape       = "shape"
)

// Metrics holds the adapter counters. A nil *Metrics records nothing.
type Metrics struct {
	registry          *prometheus.Registry
	positions         *prometheus.CounterVec
	discoveryFailures prometheus.Counter
	specs             *prometheus.CounterVec
	reportFailures    *prometheus.CounterVec
	results           *prometheus.CounterVec
}

// New registers the adapter counters in a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		positions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "discovered_positions_total",
			Help:      "Positions found by discovery, by kind",
		}, []string{"kind"}),
		discoveryFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "discovery_failures_total",
			Help:      "Files that could not be parsed",
		}),
		specs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "run_specs_total",
			Help:      "Commands built, by selected position kind",
		}, []string{"kind"}),
		reportFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "report_failures_total",
			Help:      "Reports that yielded no results, by reason",
		}, []string{"reason"}),
		results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "test_results_total",
			Help:      "Parsed test results, by status",
		}, []string{"status"}),
	}
	m.registry.MustRegister(m.positions, m.discoveryFailures, m.specs, m.reportFailures, m.results)
	return m
}

// Registry exposes the underlying registry for gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordPosition counts one discovered position.
func (m *Metrics) RecordPosition(kind string) {
	if m == nil {
		return
	}
	m.positions.WithLabelValues(kind).Inc()
}

// RecordDiscoveryFailure counts one unparseable file.
func (m *Metrics) RecordDiscoveryFailure() {
	if m == nil {
		return
	}
	m.discoveryFailures.Inc()
}

// RecordSpec counts one built command.
func (m *Metrics) RecordSpec(kind string) {
	if m == nil {
		return
	}
	m.specs.WithLabelValues(kind).Inc()
}

// RecordReportFailure counts one report that produced no results.
func (m *Metrics) RecordReportFailure(reason string) {
	if m == nil {
		return
	}
	m.reportFailures.WithLabelValues(reason).Inc()
}

// RecordResult counts one parsed test result.
func (m *Metrics) RecordResult(status string) {
	if m == nil {
		return
	}
	m.results.WithLabelValues(status).Inc()
}

// WriteTextfile dumps the registry in the node exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
