// Package metrics defines the Prometheus instrumentation for the adapter.
// Metrics are registered on the default registry via promauto and exposed
// on /metrics when the HTTP transport is active; in stdio mode they are
// still collected but have no scrape endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UpstreamRequests counts Canvas API calls by HTTP method and outcome
	// (numeric status code or "transport_error").
	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "canvasmcp_upstream_requests_total",
		Help: "Canvas API requests by method and status",
	}, []string{"method", "status"})

	// UpstreamRequestDuration tracks Canvas API call latency.
	UpstreamRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "canvasmcp_upstream_request_duration_seconds",
		Help:    "Canvas API request duration",
		Buckets: prometheus.DefBuckets,
	})

	// PagesPerAggregate tracks how many pages one FetchAll walked.
	PagesPerAggregate = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "canvasmcp_pages_per_aggregate",
		Help:    "Pages fetched per collection aggregation",
		Buckets: []float64{1, 2, 3, 5, 10, 20, 50, 100},
	})

	// ToolExecutions counts MCP tool calls by tool name and status.
	ToolExecutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "canvasmcp_tool_executions_total",
		Help: "Tool executions by tool and status",
	}, []string{"tool", "status"})

	// ToolDuration tracks tool execution latency by tool name.
	ToolDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "canvasmcp_tool_duration_seconds",
		Help:    "Tool execution duration by tool",
		Buckets: prometheus.DefBuckets,
	}, []string{"tool"})
)
