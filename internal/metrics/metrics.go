package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TransitionsAppliedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roadshare_transitions_applied_total",
		Help: "Total number of rental transitions successfully applied.",
	},
		[]string{"transition"},
	)

	TransitionsRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roadshare_transitions_rejected_total",
		Help: "Total number of rental transitions rejected by precondition checks.",
	},
		[]string{"transition"},
	)

	TransitionConflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "roadshare_transition_conflicts_total",
		Help: "Total number of rental writes lost to a concurrent transition.",
	})
)
