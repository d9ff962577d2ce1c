package qmgmt

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	commandTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qbench_qmgmt_commands_total",
			Help: "Total number of qmgmt commands executed in the management pod",
		},
		[]string{"command", "status"}, // status: success or error
	)

	commandDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "qbench_qmgmt_command_duration_seconds",
			Help:    "Time taken by a single qmgmt command including pod exec setup",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"command"},
	)
)
