package device

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	deviceTagTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qbench_device_tags_total",
			Help: "Total number of device tag commands issued",
		},
		[]string{"status"}, // success or error
	)

	hostGroupCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "qbench_device_host_groups",
			Help: "Number of host groups in the last tagging pass",
		},
	)
)
