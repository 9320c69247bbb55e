package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devnest_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// FeedCompositions counts feed builds by viewer kind.
	FeedCompositions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devnest_feed_compositions_total",
		Help: "Total number of composed feeds by viewer kind",
	}, []string{"viewer"})

	// DashboardBuildDuration records admin dashboard aggregation latency.
	DashboardBuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "devnest_dashboard_build_seconds",
		Help:    "Admin dashboard aggregation latency in seconds",
		Buckets: prometheus.DefBuckets,
	})
)

// InitMetrics creates the Prometheus HTTP middleware for the service.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware returns the per-request instrumentation handler.
func MetricsMiddleware(p *fiberprometheus.FiberPrometheus) fiber.Handler {
	return p.Middleware
}
