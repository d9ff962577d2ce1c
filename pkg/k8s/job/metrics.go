package job

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	jobWaitDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "qbench_job_wait_duration_seconds",
			Help:    "Time spent waiting for a benchmark job to finish",
			Buckets: []float64{60, 300, 900, 1800, 3600, 7200, 14400},
		},
	)

	jobWaitTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qbench_job_wait_total",
			Help: "Total number of job waits by outcome",
		},
		[]string{"status"}, // succeeded, failed, not_found, timeout, error
	)
)
