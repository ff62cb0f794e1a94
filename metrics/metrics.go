// Package metrics defines the Prometheus collectors of the service.
// Collectors are registered on the default registry through promauto, so
// mounting promhttp.Handler() on /metrics is enough to expose them.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portfolio_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// Media metrics
var (
	MediaIngestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_media_ingest_total",
			Help: "Media uploads by result",
		},
		[]string{"result"},
	)

	ConversionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "portfolio_media_conversion_duration_seconds",
			Help:    "Time spent re-encoding uploaded images",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	MediaRemovedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "portfolio_media_removed_total",
			Help: "Media files removed from storage",
		},
	)

	StorageFreeBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "portfolio_storage_free_bytes",
			Help: "Free space left on the storage backend, 0 when unknown",
		},
	)
)

// Ingest results
const (
	ResultSuccess     = "success"
	ResultNoUpload    = "no_upload"
	ResultStorage     = "storage_error"
	ResultConversion  = "conversion_error"
	ResultPersistence = "persistence_error"
)

// Middleware records request count and latency per route template
func Middleware(skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]bool, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = true
	}
	return func(c *gin.Context) {
		if skip[c.Request.URL.Path] {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
