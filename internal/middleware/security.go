package middleware

import (
	"github.com/gin-gonic/gin"
)

// SecurityHeaders sets the headers every console response carries. Responses are per-user
// JSON, so nothing is cacheable and nothing may be framed.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}
