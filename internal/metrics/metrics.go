// Package metrics exposes Prometheus collectors for the pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bankfacts_pipeline_runs_total",
		Help: "Total pipeline runs by outcome.",
	}, []string{"status"})

	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bankfacts_pipeline_run_duration_seconds",
		Help:    "Duration of complete pipeline runs.",
		Buckets: prometheus.DefBuckets,
	})

	stageRows = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "bankfacts_pipeline_stage_rows",
		Help: "Row count emitted by each pipeline stage in the last run.",
	}, []string{"stage"})
)

// RecordRun records the outcome and duration of one pipeline run.
func RecordRun(status string, duration time.Duration) {
	runsTotal.WithLabelValues(status).Inc()
	if status == "success" {
		runDuration.Observe(duration.Seconds())
	}
}

// SetStageRows records the row count a stage emitted in the last run.
func SetStageRows(stage string, rows int) {
	stageRows.WithLabelValues(stage).Set(float64(rows))
}
