package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "concierge_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "concierge_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// ComplianceCompletionRatio is refreshed whenever a summary is computed.
	// The "all" environment label covers the unfiltered view.
	ComplianceCompletionRatio = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "concierge_compliance_completion_ratio",
			Help: "Completed compliance items divided by total items",
		},
		[]string{"environment"},
	)

	AuditEntriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "concierge_audit_entries_total",
			Help: "Audit log entries written",
		},
		[]string{"action", "resource_type"},
	)

	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "concierge_dashboard_cache_lookups_total",
			Help: "Dashboard cache lookups by result",
		},
		[]string{"result"},
	)
)

// EnvironmentLabel maps an optional environment filter to a gauge label
func EnvironmentLabel(environmentID string) string {
	if environmentID == "" {
		return "all"
	}
	return environmentID
}
