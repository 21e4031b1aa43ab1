package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the report pipeline.
type Metrics struct {
	RecordsRead     prometheus.Counter
	MalformedFields *prometheus.CounterVec // labels: field={FATALITIES,INJURIES,PROPDMG,CROPDMG}
	PipelineRunning prometheus.Gauge

	// Report metrics.
	Categories       *prometheus.GaugeVec // labels: table={fatalities,injuries,damage}
	RunDuration      prometheus.Histogram
	ReportsPublished prometheus.Counter
	PublishErrors    prometheus.Counter
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RecordsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_impact",
			Name:      "records_read_total",
			Help:      "Total storm event rows read from the source.",
		}),
		MalformedFields: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storm_impact",
			Name:      "malformed_fields_total",
			Help:      "Numeric cells that could not be parsed and were counted as zero.",
		}, []string{"field"}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "storm_impact",
			Name:      "pipeline_running",
			Help:      "1 while a report run is in progress, 0 otherwise.",
		}),
		Categories: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "storm_impact",
			Name:      "report_rows",
			Help:      "Rows in the latest report table, including OTHERS.",
		}, []string{"table"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "storm_impact",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete extract-aggregate-rank-publish run.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		ReportsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_impact",
			Name:      "reports_published_total",
			Help:      "Reports successfully handed to the publisher.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storm_impact",
			Name:      "publish_errors_total",
			Help:      "Report publish failures.",
		}),
	}

	prometheus.MustRegister(
		m.RecordsRead,
		m.MalformedFields,
		m.PipelineRunning,
		m.Categories,
		m.RunDuration,
		m.ReportsPublished,
		m.PublishErrors,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RecordsRead:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "storm_impact", Name: "records_read_total"}),
		MalformedFields:  prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "storm_impact", Name: "malformed_fields_total"}, []string{"field"}),
		PipelineRunning:  prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "storm_impact", Name: "pipeline_running"}),
		Categories:       prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: "storm_impact", Name: "report_rows"}, []string{"table"}),
		RunDuration:      prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "storm_impact", Name: "run_duration_seconds"}),
		ReportsPublished: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "storm_impact", Name: "reports_published_total"}),
		PublishErrors:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "storm_impact", Name: "publish_errors_total"}),
	}
}
