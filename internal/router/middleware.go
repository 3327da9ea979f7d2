package router

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/budgetbook/backend/internal/httputil"
	"github.com/budgetbook/backend/internal/i18n"
	"github.com/budgetbook/backend/internal/models"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

// URLMiddleware stores the base URL of the API in the context. If no URL
// is configured, it is derived from the request.
func URLMiddleware(url *url.URL) gin.HandlerFunc {
	return func(c *gin.Context) {
		if url == nil || url.Host == "" {
			c.Set(string(models.DBContextURL), httputil.RequestHost(c))
		} else {
			c.Set(string(models.DBContextURL), strings.TrimSuffix(url.String(), "/"))
		}
		c.Next()
	}
}

// ContextLogger attaches a logger with the request id to the request
// context. The request id is also passed to the database logger.
func ContextLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := requestid.Get(c)
		logger := log.Logger.With().Str("request-id", id).Logger()

		ctx := context.WithValue(c.Request.Context(), models.RequestIDKey, id)
		c.Request = c.Request.WithContext(logger.WithContext(ctx))
		c.Next()
	}
}

// LocaleMiddleware negotiates the response language from the
// Accept-Language header.
func LocaleMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tag := i18n.Match(c.GetHeader("Accept-Language"))
		c.Set(i18n.ContextKey, tag)
		c.Header("Content-Language", tag.String())
		c.Next()
	}
}

var metrics = []prometheus.Collector{
	requestCount,
	requestDuration,
}

// registerPrometheusMetrics registers all Prometheus metrics
// with the default registry.
func registerPrometheusMetrics() error {
	for _, c := range metrics {
		if err := prometheus.Register(c); err != nil {
			return fmt.Errorf("could not register %s with Prometheus: %w", c, err)
		}
	}

	return nil
}

// unregisterPrometheusMetrics unregisters all Prometheus metrics.
//
// This is needed to cleanly exit.
func unregisterPrometheusMetrics() bool {
	ok := true
	for _, c := range metrics {
		if !prometheus.Unregister(c) {
			ok = false
		}
	}

	return ok
}

var requestCount = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "budgetbook",
		Name:      "requests_total",
		Help:      "How many HTTP requests processed, partitioned by status code and HTTP method.",
	},
	[]string{"code", "method", "url"},
)

var requestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "budgetbook",
		Name:      "request_duration_seconds",
		Help:      "The HTTP request latencies in seconds.",
	},
	[]string{"code", "method", "url"},
)

// MetricsMiddleware updates Prometheus metrics.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		elapsed := float64(time.Since(start)) / float64(time.Second)

		// Use the route template to keep the label cardinality low
		url := c.FullPath()
		if url == "" {
			url = "unmatched"
		}

		requestDuration.WithLabelValues(status, c.Request.Method, url).Observe(elapsed)
		requestCount.WithLabelValues(status, c.Request.Method, url).Inc()
	}
}
