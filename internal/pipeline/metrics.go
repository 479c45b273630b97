package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Queue-side collectors are registered here rather than with the HTTP
// metrics: the worker can run without the API server being up.
var (
	stepRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "automedia_pipeline_step_runs_total",
			Help: "Pipeline step executions, by step and outcome.",
		},
		[]string{"step", "outcome"},
	)

	stepDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "automedia_pipeline_step_duration_seconds",
			Help:    "Duration of completed pipeline steps.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"step"},
	)

	videosScoredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "automedia_videos_scored_total",
			Help: "Videos that received performance scores.",
		},
	)

	outliersDetectedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "automedia_outliers_detected_total",
			Help: "Scored videos flagged as outliers.",
		},
	)
)
