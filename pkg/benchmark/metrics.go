package benchmark

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var runDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "qbench_run_duration_seconds",
		Help:    "Duration of complete benchmark runs in seconds",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	},
)
