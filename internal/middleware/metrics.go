package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/user-task-api/internal/metrics"
)

const unmatchedRoute = "unmatched"

// Metrics records request count and latency per matched route
func Metrics(recorder metrics.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		recorder.RecordRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
