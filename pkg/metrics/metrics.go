package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthAttempts records login/signup attempts by flow and result (success|failure).
	AuthAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "octoops_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"flow", "result"},
	)

	// InviteTransitions counts invite lifecycle events (issued|accepted|expired|rejected).
	InviteTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "octoops_invite_transitions_total",
			Help: "Total number of team invite lifecycle transitions",
		},
		[]string{"status"},
	)

	// TaskTransitions counts task status changes triggered by submit/approve.
	TaskTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "octoops_task_transitions_total",
			Help: "Total number of task workflow transitions",
		},
		[]string{"action", "result"},
	)

	// MaintenanceRuns records scheduled maintenance executions by job and result.
	MaintenanceRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "octoops_maintenance_runs_total",
			Help: "Total number of maintenance job runs",
		},
		[]string{"job", "result"},
	)

	// APIRequests counts handled HTTP requests by route and status class.
	APIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "octoops_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "class"},
	)

	// APIInFlight tracks requests currently being served.
	APIInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "octoops_api_in_flight_requests",
			Help: "Number of API requests currently in flight",
		},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "octoops_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
