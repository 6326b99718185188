package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_HTTPStatus(t *testing.T) {
	tests := []struct {
		err  *AppError
		want int
	}{
		{NewValidation(map[string]string{"email": "Email is required"}), http.StatusUnprocessableEntity},
		{NewConnection("connection error", nil), http.StatusBadGateway},
		{NewBackend("Invalid credentials", nil), http.StatusBadGateway},
		{NotFound("patient", nil), http.StatusNotFound},
		{Unauthorized(nil), http.StatusUnauthorized},
		{Conflict("stale"), http.StatusConflict},
		{RateLimited("slow down"), http.StatusTooManyRequests},
		{Internal(fmt.Errorf("boom")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.HTTPStatus(), tt.err.Message)
	}
}

func TestAppError_IsAndAs(t *testing.T) {
	wrapped := fmt.Errorf("create appointment: %w", NewConnection("connection error", stderrors.New("dial tcp")))

	assert.True(t, stderrors.Is(wrapped, ConnectionError))
	assert.False(t, stderrors.Is(wrapped, BackendError))

	appErr, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrConnection, appErr.Code)
	assert.Equal(t, "connection error: dial tcp", appErr.Error())
}
