// Package backend talks to the clinic REST backend and translates its wire records into the
// console's model.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jwalitptl/dental-console/internal/repository"
	apperrors "github.com/jwalitptl/dental-console/pkg/errors"
	"github.com/jwalitptl/dental-console/pkg/logger"
	"github.com/jwalitptl/dental-console/pkg/metrics"
)

const (
	// ConnectionErrorMessage is shown whenever the backend cannot be reached.
	ConnectionErrorMessage = "Connection error. Please check if the backend server is running."
	genericFailureMessage  = "Request failed. Please try again."
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	log        *logger.Logger
	metrics    *metrics.Metrics
	tracer     trace.Tracer
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient builds a client for baseURL. A zero timeout leaves requests unbounded.
func NewClient(baseURL string, timeout time.Duration, log *logger.Logger, opts ...Option) *Client {
	if log == nil {
		log = logger.Nop()
	}
	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		log:        log,
		tracer:     otel.Tracer("github.com/jwalitptl/dental-console/internal/repository/backend"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// failureBody is the error shape the backend uses (FastAPI style).
type failureBody struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
}

func (f failureBody) reason() string {
	if len(f.Detail) > 0 {
		var s string
		if err := json.Unmarshal(f.Detail, &s); err == nil && s != "" {
			return s
		}
	}
	return f.Message
}

// doJSON sends body as JSON and decodes a 2xx reply into out. Transport failures become
// connection errors, other statuses become backend errors carrying the server's reason.
func (c *Client) doJSON(ctx context.Context, operation, method, path string, body, out interface{}) (err error) {
	start := time.Now()
	ctx, span := c.tracer.Start(ctx, "backend."+operation, trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", path),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		c.metrics.ObserveBackend(operation, start, err)
	}()

	endpoint := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return apperrors.Internal(fmt.Errorf("marshal request: %w", err))
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return apperrors.Internal(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := repository.AccessToken(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error(err, "backend request failed", "operation", operation, "endpoint", endpoint)
		return apperrors.NewConnection(ConnectionErrorMessage, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.Error(err, "backend response read failed", "operation", operation, "endpoint", endpoint)
		return apperrors.NewConnection(ConnectionErrorMessage, err)
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var fb failureBody
		_ = json.Unmarshal(respBody, &fb)
		msg := fb.reason()
		if msg == "" {
			msg = genericFailureMessage
		}
		c.log.Warn("backend non-2xx response", "operation", operation, "status", resp.StatusCode, "path", path)
		if resp.StatusCode == http.StatusNotFound {
			return &apperrors.AppError{Code: apperrors.ErrNotFound, Message: msg, Err: errStatus(resp.StatusCode)}
		}
		return apperrors.NewBackend(msg, errStatus(resp.StatusCode))
	}

	if len(respBody) == 0 || out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return apperrors.NewBackend(genericFailureMessage, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

type statusError int

func (s statusError) Error() string {
	return fmt.Sprintf("backend returned %d", int(s))
}

func errStatus(code int) error {
	return statusError(code)
}

// StatusCode reports the backend HTTP status carried by err, if any.
func StatusCode(err error) (int, bool) {
	var s statusError
	if errors.As(err, &s) {
		return int(s), true
	}
	return 0, false
}
