package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a unique error code
type ErrorCode int

// AppError represents an application error
type AppError struct {
	Code    ErrorCode         `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	Err     error             `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any AppError carrying the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// HTTPStatus maps the error code onto the status returned to the browser.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case ErrNotFound:
		return http.StatusNotFound
	case ErrBadRequest:
		return http.StatusBadRequest
	case ErrUnauthorized:
		return http.StatusUnauthorized
	case ErrForbidden:
		return http.StatusForbidden
	case ErrValidation:
		return http.StatusUnprocessableEntity
	case ErrConnection, ErrBackend:
		return http.StatusBadGateway
	case ErrConflict:
		return http.StatusConflict
	case ErrRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Common error codes
const (
	ErrNotFound ErrorCode = iota + 1000
	ErrBadRequest
	ErrUnauthorized
	ErrForbidden
	ErrInternal
	ErrValidation
	ErrConnection
	ErrBackend
	ErrConflict
	ErrRateLimited
)

// Sentinels for errors.Is checks against a code.
var (
	NotFoundError     = &AppError{Code: ErrNotFound}
	UnauthorizedError = &AppError{Code: ErrUnauthorized}
	ValidationError   = &AppError{Code: ErrValidation}
	ConnectionError   = &AppError{Code: ErrConnection}
	BackendError      = &AppError{Code: ErrBackend}
)

// Error constructors
func NewNotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

func NewBadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    ErrBadRequest,
		Message: message,
		Err:     err,
	}
}

func NewInternal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal server error",
		Err:     err,
	}
}

// NewValidation reports per-field failures caught before any backend call.
func NewValidation(fields map[string]string) *AppError {
	return &AppError{
		Code:    ErrValidation,
		Message: "validation failed",
		Fields:  fields,
	}
}

// NewConnection reports a transport failure talking to the backend.
func NewConnection(message string, err error) *AppError {
	return &AppError{
		Code:    ErrConnection,
		Message: message,
		Err:     err,
	}
}

// NewBackend reports a non-success reply; message is the server reason when one was given.
func NewBackend(message string, err error) *AppError {
	return &AppError{
		Code:    ErrBackend,
		Message: message,
		Err:     err,
	}
}

// Common errors
func NotFound(resource string, err error) *AppError {
	return NewNotFound(resource, err)
}

func BadRequest(message string, err error) *AppError {
	return NewBadRequest(message, err)
}

func Internal(err error) *AppError {
	return NewInternal(err)
}

func Unauthorized(err error) *AppError {
	return &AppError{
		Code:    ErrUnauthorized,
		Message: "unauthorized",
		Err:     err,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Code:    ErrConflict,
		Message: message,
	}
}

func RateLimited(message string) *AppError {
	return &AppError{
		Code:    ErrRateLimited,
		Message: message,
	}
}

// As extracts the first AppError in err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
