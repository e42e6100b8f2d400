// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	DashboardReadFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_read_failures_total",
			Help: "Dashboard aggregations that fell back to default stats",
		},
		[]string{"role"},
	)

	DashboardViews = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_views_total",
			Help: "Dashboard views composed, by role and state",
		},
		[]string{"role", "state"},
	)

	SearchesExecuted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "searches_executed_total",
			Help: "Searches executed, by target, backend and outcome",
		},
		[]string{"target", "backend", "outcome"},
	)

	HistoryRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_history_records_total",
			Help: "Search history writes, by outcome (written, failed, dropped)",
		},
		[]string{"outcome"},
	)

	HistoryQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "search_history_queue_depth",
			Help: "Pending search history writes",
		},
	)

	VoiceRecognitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "voice_recognitions_total",
			Help: "Voice recognition attempts, by outcome",
		},
		[]string{"outcome"},
	)

	ProfileCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "profile_cache_lookups_total",
			Help: "Profile cache lookups, by result (hit, miss, error)",
		},
		[]string{"result"},
	)
)
