package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	StoreOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "agentdeck", Name: "store_operations_total", Help: "Record store calls by collection, operation and result."},
		[]string{"collection", "op", "result"},
	)
	CascadeDeletes = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "agentdeck", Name: "cascade_deletes_total", Help: "Agent cascade deletions by outcome."},
		[]string{"result"},
	)
	CascadeChildrenDeleted = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "agentdeck", Name: "cascade_children_deleted_total", Help: "Content records removed by agent cascade deletions."},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(StoreOperations)
	reg.MustRegister(CascadeDeletes)
	reg.MustRegister(CascadeChildrenDeleted)
}

// ObserveStore records the outcome of one record store call.
func ObserveStore(collection, op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	StoreOperations.WithLabelValues(collection, op, result).Inc()
}
