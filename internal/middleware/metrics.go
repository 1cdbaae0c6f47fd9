package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/OluRemiFour/OctoOps-backend/pkg/metrics"
)

// unmatchedRoute labels requests gin could not route so arbitrary paths do
// not create new series.
const unmatchedRoute = "unmatched"

// Metrics records latency, request counts and in-flight requests per route.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		metrics.APIInFlight.Inc()
		defer metrics.APIInFlight.Dec()

		start := time.Now()
		c.Next()

		route := routeLabel(c)
		code := c.Writer.Status()
		metrics.APILatency.WithLabelValues(c.Request.Method, route, strconv.Itoa(code)).
			Observe(time.Since(start).Seconds())
		metrics.APIRequests.WithLabelValues(c.Request.Method, route, statusClass(code)).Inc()
	}
}

func routeLabel(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return unmatchedRoute
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
