package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	FilterEvaluationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rosview_filter_evaluations_total",
		Help: "Total number of filter tests evaluated against console records.",
	}, []string{"mode", "result"})

	FilterPatternErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rosview_filter_pattern_errors_total",
		Help: "Total number of filter evaluations that hit a malformed regular expression.",
	})

	FilterChangesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rosview_filter_changes_total",
		Help: "Total number of filter change notifications emitted.",
	})

	HoverTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rosview_hover_transitions_total",
		Help: "Total number of edge hover state transitions.",
	}, []string{"transition"})

	GraphNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rosview_graph_nodes_total",
		Help: "Total number of nodes in the loaded computation graph.",
	})

	GraphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rosview_graph_edges_total",
		Help: "Total number of edges in the loaded computation graph.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rosview_watcher_events_total",
		Help: "Total number of file system events received by the log watcher.",
	})

	RecordsIngestedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rosview_records_ingested_total",
		Help: "Total number of console records appended to the record store.",
	})

	RecordParseErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rosview_record_parse_errors_total",
		Help: "Total number of console log lines that could not be decoded.",
	})

	StoreDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rosview_store_seconds",
		Help:    "Time spent on record store operations.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
)
