package runtime

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics is the operational surface a Runtime exposes to a Prometheus
// registerer, mirroring the kind of counters the teacher's proxy server
// keeps for its own containers.
type Metrics struct {
	NodesConstructed prometheus.Counter
	NodesRunning     prometheus.Gauge
	FabricSends      prometheus.Counter
	FabricSendErrors prometheus.Counter
}

// RecordSend implements node.MetricsRecorder, incrementing the
// appropriate fabric counter for a single send/reply outcome.
func (m *Metrics) RecordSend(ok bool) {
	if ok {
		m.FabricSends.Inc()
		return
	}
	m.FabricSendErrors.Inc()
}

// NewMetrics registers every counter/gauge against reg and returns the
// bundle. Pass prometheus.NewRegistry() for an isolated registry, or
// prometheus.DefaultRegisterer to publish alongside the process's other
// metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		NodesConstructed: factory.NewCounter(prometheus.CounterOpts{
			Name: "arrowmesh_nodes_constructed_total",
			Help: "Count of nodes successfully constructed across all runs.",
		}),
		NodesRunning: factory.NewGauge(prometheus.GaugeOpts{
			Name: "arrowmesh_nodes_running",
			Help: "Number of node Start tasks currently running.",
		}),
		FabricSends: factory.NewCounter(prometheus.CounterOpts{
			Name: "arrowmesh_fabric_sends_total",
			Help: "Count of envelopes successfully delivered through the fabric.",
		}),
		FabricSendErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "arrowmesh_fabric_send_errors_total",
			Help: "Count of fabric sends that failed (backpressure timeout, cancelled context).",
		}),
	}
}
