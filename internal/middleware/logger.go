package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/dental-console/pkg/logger"
)

// Logger logs one line per request. Bodies are never logged since they carry credentials and
// patient data.
func Logger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		zl := log.Zerolog()
		event := zl.Info()
		switch {
		case status >= 500:
			event = zl.Error()
		case status >= 400:
			event = zl.Warn()
		}
		if len(c.Errors) > 0 {
			event = event.Err(c.Errors.Last().Err)
		}

		event.
			Str("request_id", c.GetString(ContextRequestID)).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("route", c.FullPath()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("request processed")
	}
}
