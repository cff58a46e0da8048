package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the service
	Registry = prometheus.NewRegistry()
	// HTTPRequests counts requests by method, path, and status
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// RoutesPlanned counts planned routes by transport mode and ordering objective
	RoutesPlanned = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "courier_routes_planned_total", Help: "Routes planned by mode and order objective."},
		[]string{"mode", "order_by"},
	)
	// SweepDuration tracks Pareto sweep wall time in seconds
	SweepDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "courier_pareto_sweep_duration_seconds", Help: "Pareto sweep duration in seconds.", Buckets: prometheus.ExponentialBuckets(0.001, 4, 8)},
	)
	// SweepCandidates tracks how many distinct routes a sweep records
	SweepCandidates = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "courier_pareto_candidates", Help: "Pareto sweep candidates by dominance.", Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500}},
		[]string{"set"},
	)
	// SweepCacheLookups counts sweep cache hits and misses
	SweepCacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "courier_pareto_cache_lookups_total", Help: "Pareto sweep cache lookups by result."},
		[]string{"result"},
	)
)

// RegisterDefault registers collectors to the service registry.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(RoutesPlanned)
		Registry.MustRegister(SweepDuration)
		Registry.MustRegister(SweepCandidates)
		Registry.MustRegister(SweepCacheLookups)
		// Go/process collectors on our registry
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

var regOnce sync.Once
