package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/jwalitptl/dental-console/pkg/errors"
	"github.com/jwalitptl/dental-console/pkg/httputil"
)

// DefaultMaxBodySize covers the largest settings document with room to spare.
const DefaultMaxBodySize = 1 << 20

// SizeLimit rejects bodies larger than max bytes.
func SizeLimit(max int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > max {
			err := &apperrors.AppError{
				Code:    apperrors.ErrBadRequest,
				Message: fmt.Sprintf("request body exceeds %d bytes", max),
			}
			httputil.RespondWithError(c, err)
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, max)
		}
		c.Next()
	}
}
