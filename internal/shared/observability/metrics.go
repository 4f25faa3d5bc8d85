package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	EntitiesAnalyzed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crossbind_entities_analyzed_total",
		Help: "Total number of entities that completed an analysis phase.",
	}, []string{"phase"})

	EntitiesIgnored = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crossbind_entities_ignored_total",
		Help: "Total number of entities demoted to ignored placeholders, by error code.",
	}, []string{"code"})

	RenamesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crossbind_renames_total",
		Help: "Total number of bridge-name collisions resolved by renaming.",
	})

	AuxiliaryEntities = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crossbind_auxiliary_entities_total",
		Help: "Total number of auxiliary entities synthesized during analysis.",
	}, []string{"phase"})

	PhaseDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "crossbind_phase_seconds",
		Help:    "Time spent running one analysis phase over the entity set.",
		Buckets: prometheus.DefBuckets,
	}, []string{"phase"})

	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "crossbind_run_seconds",
		Help:    "End-to-end duration of one analysis run.",
		Buckets: prometheus.DefBuckets,
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crossbind_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})
)
