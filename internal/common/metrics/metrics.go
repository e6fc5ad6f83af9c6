package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	InteractionsHandled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "svrmgr_interactions_handled_total",
			Help: "Total number of interactions handled, by interaction kind",
		},
		[]string{"kind"},
	)

	InteractionErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "svrmgr_interaction_errors_total",
			Help: "Total number of interaction handling failures, by status code",
		},
		[]string{"status"},
	)

	LifecycleCommands = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "svrmgr_lifecycle_commands_total",
			Help: "Total number of start/stop commands issued to EC2",
		},
		[]string{"action"},
	)

	HandleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "svrmgr_handle_duration_seconds",
			Help: "Duration of interaction handling in seconds",
		},
	)
)
