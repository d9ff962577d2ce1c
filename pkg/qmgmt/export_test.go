package qmgmt

import "github.com/prometheus/client_golang/prometheus"

// CommandTotal exposes the command counter to external tests.
func CommandTotal() *prometheus.CounterVec {
	return commandTotal
}
