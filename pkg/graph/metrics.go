package graph

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	opAddNode          = "add_node"
	opRemoveNode       = "remove_node"
	opAddConnection    = "add_connection"
	opRemoveConnection = "remove_connection"
	opDisconnectNode   = "disconnect_node"
	opRequestLayout    = "request_layout"
	opSetBusEnabled    = "set_bus_enabled"
	opApplyLayout      = "apply_layout"
	opAddBus           = "add_bus"
	opRemoveBus        = "remove_bus"
	opBatch            = "batch"
)

var (
	// editsTotal counts edits by operation and result
	editsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vst3graph_edits_total",
		Help: "Total graph edits by operation and result",
	}, []string{"op", "result"})

	// suspendDuration tracks how long the consumer stays suspended per mutation
	suspendDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "vst3graph_suspend_duration_seconds",
		Help:    "Time the real-time consumer spends suspended per mutation",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10), // 10us to ~2.6s
	})

	nodesGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "vst3graph_nodes",
		Help: "Nodes in the last published snapshot",
	})

	connectionsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "vst3graph_connections",
		Help: "Connections in the last published snapshot",
	})

	// layoutFallbacks counts layout requests resolved with something other than the requested set
	layoutFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vst3graph_layout_fallbacks_total",
		Help: "Layout requests or buses that fell back to an alternative layout",
	})
)
