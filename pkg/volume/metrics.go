package volume

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var volumeResetTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "qbench_volume_resets_total",
		Help: "Total number of volume resets by status",
	},
	[]string{"status"},
)
