package metrics

import "github.com/prometheus/client_golang/prometheus"

// RAG pipeline Prometheus metrics.
var (
	PipelineRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "surfcoach",
			Name:      "pipeline_requests_total",
			Help:      "Total number of pipeline requests by outcome",
		},
		[]string{"outcome"}, // "completed" / "failed"
	)

	PipelineStageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "surfcoach",
			Name:      "pipeline_stage_duration_seconds",
			Help:      "Pipeline stage duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"stage"},
	)

	PipelineStageErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "surfcoach",
			Name:      "pipeline_stage_errors_total",
			Help:      "Total pipeline stage errors by cause",
		},
		[]string{"stage", "cause"},
	)

	RetrievedDocuments = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "surfcoach",
			Name:      "retrieved_documents",
			Help:      "Documents returned per retrieval call",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
		},
	)

	ContextSourcesDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "surfcoach",
			Name:      "context_sources_dropped_total",
			Help:      "Retrieved documents dropped by the context budget",
		},
	)
)

var pipelineMetricsRegistered bool

// RegisterPipelineMetrics registers pipeline metrics. Must be called once from main.
func RegisterPipelineMetrics() {
	if pipelineMetricsRegistered {
		return
	}
	prometheus.MustRegister(PipelineRequestsTotal)
	prometheus.MustRegister(PipelineStageDuration)
	prometheus.MustRegister(PipelineStageErrorsTotal)
	prometheus.MustRegister(RetrievedDocuments)
	prometheus.MustRegister(ContextSourcesDropped)
	pipelineMetricsRegistered = true
}
