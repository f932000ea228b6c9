package middleware

import (
	"strconv"
	"time"

	"github.com/SscSPs/multicurrency_ledger/internal/platform/metrics"
	"github.com/gin-gonic/gin"
)

// PrometheusMiddleware records request counts and latency per route template.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPLatency.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}
