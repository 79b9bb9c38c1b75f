package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by route, method and status",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	// InteractionsTotal counts ledger mutations, e.g. kind=like result=added.
	InteractionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blog_interactions_total",
		Help: "Interaction ledger mutations by kind and result",
	}, []string{"kind", "result"})

	NotificationsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_created_total",
		Help: "Notifications stored by type",
	}, []string{"type"})

	WebSocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "notification_websocket_connections",
		Help: "Open notification websocket connections",
	})

	JobRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scheduled_job_runs_total",
		Help: "Scheduled job executions by job and result",
	}, []string{"job", "result"})
)
