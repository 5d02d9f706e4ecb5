// Package metric provides Prometheus metrics for the access gate.
//
//   - prometheus.go: registry, application metrics and the HTTP handler
//   - collector.go: scrape-time collector for build info and limiter state
//
// Metrics are exposed at /api/metrics in Prometheus text format.
package metric
