package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Sync pipeline metrics
	SyncRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blog_sync_runs_total",
			Help: "Total number of content sync runs by outcome",
		},
		[]string{"outcome"},
	)

	SyncEntriesFetched = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "blog_sync_entries_fetched",
			Help: "Number of published entries seen by the last sync run",
		},
	)

	DeployTriggersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blog_deploy_triggers_total",
			Help: "Total number of deploy webhook calls",
		},
		[]string{"source", "result"},
	)

	// Notion API metrics
	NotionRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notion_requests_total",
			Help: "Total number of Notion API requests",
		},
		[]string{"operation", "status"},
	)

	NotionRecordsSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notion_records_skipped_total",
			Help: "Query results dropped because they carried no properties",
		},
	)

	// Rendering metrics
	BookmarkFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "render_bookmark_fetches_total",
			Help: "Bookmark preview lookups by result",
		},
		[]string{"result"},
	)
)
