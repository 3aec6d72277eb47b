// Package metrics exposes Prometheus collectors for the slot-processing
// core, so the range driver's and slot processor's outcomes are visible
// to an operator.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	SlotsIndexed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "blobindexer",
		Name:      "slots_indexed_total",
		Help:      "Number of slots successfully indexed.",
	})
	SlotsSkipped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blobindexer",
		Name:      "slots_skipped_total",
		Help:      "Number of slots skipped, by reason.",
	}, []string{"reason"})
	SlotsFailed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "blobindexer",
		Name:      "slots_failed_total",
		Help:      "Number of slots that failed, by error kind.",
	}, []string{"kind"})
	RetriesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "blobindexer",
		Name:      "slot_retries_total",
		Help:      "Number of retry attempts issued by the range driver's backoff loop.",
	})
	ReorgsDetected = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "blobindexer",
		Name:      "reorgs_detected_total",
		Help:      "Number of single-step reorgs detected.",
	})
)

// MustRegister registers every collector above against reg. Call once at
// process startup; safe to call with prometheus.DefaultRegisterer.
func MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(SlotsIndexed, SlotsSkipped, SlotsFailed, RetriesTotal, ReorgsDetected)
}
