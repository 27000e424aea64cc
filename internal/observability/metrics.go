package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ExtractionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "classlens_extraction_seconds",
		Help:    "Time spent decoding a single class record.",
		Buckets: prometheus.DefBuckets,
	})

	AnalysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "classlens_analysis_seconds",
		Help:    "Time spent on one analysis stage.",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})

	ClassesExtracted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "classlens_classes_extracted_total",
		Help: "Total number of class records successfully extracted.",
	})

	RecordDiagnostics = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "classlens_record_diagnostics_total",
		Help: "Total number of class records skipped with a diagnostic.",
	}, []string{"code"})

	GraphNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "classlens_graph_nodes_total",
		Help: "Number of classes in the dependency graph of the latest run.",
	})

	GraphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "classlens_graph_edges_total",
		Help: "Number of edges in the dependency graph of the latest run.",
	})

	CycleGroups = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "classlens_cycle_groups_total",
		Help: "Number of circular dependency groups in the latest run.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "classlens_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})
)
