// Package metrics provides internal metrics collection.
// This package is internal and should not be imported by external projects.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ActraStride/xulcan/types"
)

// Collector gathers HTTP and LLM usage metrics on its own registry, so
// the process can run several collectors (tests do) without label
// collisions on the default one.
type Collector struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	llmUsageReports *prometheus.CounterVec
	llmTokensUsed   *prometheus.CounterVec
	llmLatency      *prometheus.HistogramVec
	llmCacheTokens  *prometheus.CounterVec

	logger *zap.Logger
}

// NewCollector creates a collector under namespace.
func NewCollector(namespace string, logger *zap.Logger) *Collector {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	c := &Collector{
		registry: registry,
		logger:   logger.With(zap.String("component", "metrics")),
	}

	c.httpRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	c.httpRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	c.llmUsageReports = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_usage_reports_total",
			Help:      "Total number of validated usage reports",
		},
		[]string{"provider", "model"},
	)

	c.llmTokensUsed = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_tokens_used_total",
			Help:      "Total number of tokens used",
		},
		[]string{"provider", "model", "type"}, // type: input, output
	)

	c.llmCacheTokens = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "llm_cache_tokens_total",
			Help:      "Total number of cache tokens",
		},
		[]string{"provider", "model", "type"}, // type: read, creation
	)

	c.llmLatency = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "llm_request_duration_seconds",
			Help:      "Reported LLM request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"provider", "model"},
	)

	logger.Info("metrics collector initialized", zap.String("namespace", namespace))

	return c
}

// Handler serves this collector's registry for scraping.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for extra registrations.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordHTTPRequest records one served request.
func (c *Collector) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	c.httpRequestsTotal.WithLabelValues(method, path, statusClass(status)).Inc()
	c.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordUsage feeds one validated usage record into the LLM counters.
// Empty provider or model labels collapse into "unknown" so unattributed
// reports still count.
func (c *Collector) RecordUsage(provider, model string, usage types.UsageStats) {
	provider = orUnknown(provider)
	model = orUnknown(model)

	c.llmUsageReports.WithLabelValues(provider, model).Inc()
	c.llmTokensUsed.WithLabelValues(provider, model, "input").Add(float64(usage.InputTokens))
	c.llmTokensUsed.WithLabelValues(provider, model, "output").Add(float64(usage.OutputTokens))
	c.llmCacheTokens.WithLabelValues(provider, model, "read").Add(float64(usage.CacheReadInputTokens))
	c.llmCacheTokens.WithLabelValues(provider, model, "creation").Add(float64(usage.CacheCreationInputTokens))
	if usage.LatencyMS > 0 {
		c.llmLatency.WithLabelValues(provider, model).Observe(usage.LatencyMS / 1000)
	}
}

func orUnknown(label string) string {
	if label == "" {
		return "unknown"
	}
	return label
}

func statusClass(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}
