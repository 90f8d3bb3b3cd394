// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tubevault"

var (
	// CacheOperationsTotal tracks search cache operations.
	// Labels:
	//   - operation: get, set
	//   - status: hit, miss, success
	//   - cache_type: memory
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "Total number of cache operations",
		},
		[]string{"operation", "status", "cache_type"},
	)

	// SearchRequestsTotal tracks search requests by result source.
	// Labels:
	//   - search_type: videos, channels
	//   - source: cache, upstream, error
	SearchRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_requests_total",
			Help:      "Total number of search requests",
		},
		[]string{"search_type", "source"},
	)

	// DownloadStageAttemptsTotal tracks fallback chain stage outcomes.
	// Labels:
	//   - stage: primary, simple, helper, thumbnail, info_file
	//   - outcome: success, failure
	DownloadStageAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "download_stage_attempts_total",
			Help:      "Total number of download fallback stage attempts",
		},
		[]string{"stage", "outcome"},
	)

	// DownloadArtifactsTotal tracks what kind of artifact downloads deliver.
	// Labels:
	//   - kind: media, thumbnail, info
	DownloadArtifactsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "download_artifacts_total",
			Help:      "Total number of delivered download artifacts by kind",
		},
		[]string{"kind"},
	)

	// DBQueriesTotal tracks database queries.
	// Labels:
	//   - query_type: select, insert, update, delete
	//   - table: users, videos, user_videos, search_history
	DBQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "db_queries_total",
			Help:      "Total number of database queries",
		},
		[]string{"query_type", "table"},
	)

	// SingleflightRequestsTotal tracks search singleflight behavior.
	// Labels:
	//   - result: initiated (new execution), shared (reused result)
	SingleflightRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "singleflight_requests_total",
			Help:      "Total number of singleflight requests",
		},
		[]string{"result"},
	)
)

// Cache operation status constants.
const (
	CacheStatusHit     = "hit"
	CacheStatusMiss    = "miss"
	CacheStatusSuccess = "success"
)

// Cache operation type constants.
const (
	CacheOpGet = "get"
	CacheOpSet = "set"
)

// Cache type constants.
const (
	CacheTypeMemory = "memory"
)

// Search source constants.
const (
	SearchSourceCache    = "cache"
	SearchSourceUpstream = "upstream"
	SearchSourceError    = "error"
)

// Download stage outcome constants.
const (
	StageOutcomeSuccess = "success"
	StageOutcomeFailure = "failure"
)

// DB query type constants.
const (
	DBQuerySelect = "select"
	DBQueryInsert = "insert"
	DBQueryUpdate = "update"
	DBQueryDelete = "delete"
)

// Table name constants.
const (
	TableUsers         = "users"
	TableVideos        = "videos"
	TableUserVideos    = "user_videos"
	TableSearchHistory = "search_history"
)

// Singleflight result constants.
const (
	SingleflightInitiated = "initiated"
	SingleflightShared    = "shared"
)
