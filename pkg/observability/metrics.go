// Package observability provides Prometheus metrics and HTTP middleware
// for monitoring the research MCP server.
package observability

import "github.com/prometheus/client_golang/prometheus"

// VendorBuckets defines histogram buckets suited for hosted assistant run
// latencies, ranging from 100ms to 120s. A run involves remote retrieval
// plus model generation, so the tail is long.
var VendorBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}

var (
	// RequestsTotal counts all HTTP requests by method and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "research_mcp_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "status"},
	)

	// RequestDuration records HTTP request duration in seconds by method.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "research_mcp_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: VendorBuckets,
		},
		[]string{"method"},
	)

	// ToolInvocationsTotal counts tool invocations by tool name and outcome.
	ToolInvocationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "research_mcp_tool_invocations_total",
			Help: "Tool invocations",
		},
		[]string{"tool", "status"},
	)

	// ToolDuration records end-to-end tool invocation duration in seconds.
	ToolDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "research_mcp_tool_duration_seconds",
			Help:    "Tool invocation duration",
			Buckets: VendorBuckets,
		},
		[]string{"tool"},
	)

	// VendorRequestsTotal counts requests sent to the Azure OpenAI API.
	VendorRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "research_mcp_vendor_requests_total",
			Help: "Vendor API requests",
		},
		[]string{"operation", "status"},
	)

	// VendorRunLatency records assistant run latency (create to terminal
	// status) in seconds.
	VendorRunLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "research_mcp_vendor_run_seconds",
			Help:    "Assistant run latency",
			Buckets: VendorBuckets,
		},
		[]string{"tool"},
	)

	// CleanupFailuresTotal counts best-effort remote resource cleanups
	// that failed (assistant or thread deletion).
	CleanupFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "research_mcp_cleanup_failures_total",
			Help: "Failed transient resource cleanups",
		},
		[]string{"resource"},
	)

	// RateLimitRejectedTotal counts requests rejected by the rate limiter.
	RateLimitRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "research_mcp_ratelimit_rejected_total",
			Help: "Rate limit rejections",
		},
		[]string{"tier"},
	)
)

// Register registers all package metrics with the given registry.
// Call once at startup.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		RequestsTotal,
		RequestDuration,
		ToolInvocationsTotal,
		ToolDuration,
		VendorRequestsTotal,
		VendorRunLatency,
		CleanupFailuresTotal,
		RateLimitRejectedTotal,
	)
}
