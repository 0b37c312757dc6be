// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics collects batch analysis metrics and writes them in the
// Prometheus text format for a node-exporter textfile collector.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pdiddy/registry-engine/pkg/types"
)

// Metrics provides observability for batch analysis runs.
type Metrics struct {
	registry *prometheus.Registry

	// Documents processed by outcome: analyzed, skipped, failed
	Documents *prometheus.CounterVec

	// Hard stops raised by code
	HardStops *prometheus.CounterVec

	// Demoted hard stops by code
	YellowCodes *prometheus.CounterVec

	// Base right resolution by method
	Resolutions *prometheus.CounterVec

	// Overall confidence of analyzed documents
	Confidence prometheus.Histogram

	// Per-document analysis latency
	AnalyzeLatency prometheus.Histogram
}

// New creates a Metrics instance on its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		Documents: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_engine_documents_total",
			Help: "Documents processed by outcome",
		}, []string{"outcome"}),

		HardStops: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_engine_hard_stops_total",
			Help: "Hard stops raised by code",
		}, []string{"code"}),

		YellowCodes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_engine_yellow_codes_total",
			Help: "Hard-stop evaluations demoted to warnings by code",
		}, []string{"code"}),

		Resolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "registry_engine_base_right_resolutions_total",
			Help: "Base right resolutions by method",
		}, []string{"method"}),

		Confidence: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "registry_engine_confidence",
			Help:    "Overall confidence of analyzed documents",
			Buckets: []float64{0.1, 0.3, 0.5, 0.7, 0.8, 0.9, 0.95, 1},
		}),

		AnalyzeLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "registry_engine_analyze_duration_seconds",
			Help:    "Duration of one document's load and analysis",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}),
	}
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// IncrementDocument records a document outcome.
func (m *Metrics) IncrementDocument(outcome string) {
	if m != nil {
		m.Documents.WithLabelValues(outcome).Inc()
	}
}

// ObserveReport records the analysis outcome of one document.
func (m *Metrics) ObserveReport(rep types.AnalysisReport) {
	if m == nil {
		return
	}
	m.Resolutions.WithLabelValues(string(rep.ResolutionMethod)).Inc()
	for _, h := range rep.HardStops {
		m.HardStops.WithLabelValues(string(h.Code)).Inc()
	}
	for _, c := range rep.Summary.YellowCodes {
		m.YellowCodes.WithLabelValues(string(c)).Inc()
	}
	m.Confidence.Observe(rep.Confidence)
}

// ObserveAnalyzeLatency records the duration of one document's analysis.
func (m *Metrics) ObserveAnalyzeLatency(d time.Duration) {
	if m != nil {
		m.AnalyzeLatency.Observe(d.Seconds())
	}
}

// WriteFile writes every metric to path in the Prometheus text format.
func (m *Metrics) WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics %s: %w", path, err)
	}
	return nil
}
