package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/dental-console/pkg/errors"
)

// Response wraps all API responses
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *Error      `json:"error,omitempty"`
}

// Error represents API error
type Error struct {
	Code     int               `json:"code"`
	Message  string            `json:"message"`
	Fields   map[string]string `json:"fields,omitempty"`
	Redirect string            `json:"redirect,omitempty"`
}

// RespondWithSuccess sends a success response
func RespondWithSuccess(c *gin.Context, data interface{}) {
	RespondWithStatus(c, http.StatusOK, data)
}

// RespondWithStatus sends a success response with an explicit status code
func RespondWithStatus(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{
		Success: true,
		Data:    data,
	})
}

// RespondWithError sends an error response. Errors that are not AppErrors are reported as internal.
func RespondWithError(c *gin.Context, err error) {
	statusCode := http.StatusInternalServerError
	message := "Internal server error"
	var fields map[string]string

	if appErr, ok := errors.As(err); ok {
		statusCode = appErr.HTTPStatus()
		if statusCode != http.StatusInternalServerError {
			message = appErr.Message
		}
		fields = appErr.Fields
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(statusCode, Response{
		Success: false,
		Error: &Error{
			Code:    statusCode,
			Message: message,
			Fields:  fields,
		},
	})
}

// RespondWithRedirect tells the browser shell where to go instead of rendering protected content.
func RespondWithRedirect(c *gin.Context, status int, message, location string) {
	c.AbortWithStatusJSON(status, Response{
		Success: false,
		Error: &Error{
			Code:     status,
			Message:  message,
			Redirect: location,
		},
	})
}
