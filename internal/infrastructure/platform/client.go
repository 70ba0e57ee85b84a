package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/b2bportal/backend/internal/domain/shared"
)

// maxResponseSize limits response bodies to prevent memory exhaustion.
const maxResponseSize = 10 * 1024 * 1024 // 10MB

// Config holds the connection settings for one upstream platform API.
type Config struct {
	BaseURL        string
	TimeoutSeconds int
}

// Validate checks the config for required fields.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("platform base URL is required")
	}
	if _, err := url.Parse(c.BaseURL); err != nil {
		return fmt.Errorf("invalid platform base URL: %w", err)
	}
	return nil
}

// UpstreamError is a rejection from an upstream service, carrying the
// upstream's own status and detail text so callers can surface it verbatim.
type UpstreamError struct {
	HTTPStatus int    `json:"-"`
	Status     int    `json:"status"`
	Detail     string `json:"detail"`
}

func (e *UpstreamError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("upstream request failed with status %d", e.HTTPStatus)
}

func (e *UpstreamError) Unwrap() error {
	return shared.ErrUpstreamRejected
}

// Client is a thin JSON HTTP client shared by the platform services. Every
// request runs inside a circuit breaker and an otel span; the breaker opens
// after repeated upstream failures so a degraded platform does not pile up
// in-flight requests.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	tracer     trace.Tracer
	logger     *zap.Logger

	// authorize decorates each outgoing request, e.g. with a signed token.
	authorize func(ctx context.Context, req *http.Request) error
}

// NewClient creates a platform client for the given base URL.
func NewClient(name string, cfg Config, logger *zap.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Platform circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		breaker:    breaker,
		tracer:     otel.Tracer("platform"),
		logger:     logger,
	}, nil
}

// WithAuthorization sets a request decorator applied to every call.
func (c *Client) WithAuthorization(fn func(ctx context.Context, req *http.Request) error) *Client {
	c.authorize = fn
	return c
}

// Get performs a GET request and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// Post performs a POST request with a JSON body and decodes the response
// into out (which may be nil).
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	ctx, span := c.tracer.Start(ctx, "platform.request",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.path", path),
		),
	)
	defer span.End()

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.roundTrip(ctx, method, path, query, body, out)
	})
	_ = result

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			c.logger.Warn("Platform request short-circuited",
				zap.String("method", method),
				zap.String("path", path),
			)
		}
		return err
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.authorize != nil {
		if err := c.authorize(ctx, req); err != nil {
			return fmt.Errorf("failed to authorize request: %w", err)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("platform request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return c.decodeError(resp.StatusCode, data)
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// decodeError maps an upstream failure body to an error. Rejections carry a
// {status, detail} envelope whose detail is relayed verbatim; anything else
// becomes a generic UpstreamError.
func (c *Client) decodeError(httpStatus int, body []byte) error {
	var envelope UpstreamError
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Detail != "" {
		envelope.HTTPStatus = httpStatus
		if envelope.Status == 0 {
			envelope.Status = httpStatus
		}
		return &envelope
	}
	c.logger.Debug("Unstructured upstream error",
		zap.Int("status", httpStatus),
		zap.ByteString("body", body[:min(len(body), 512)]),
	)
	return &UpstreamError{HTTPStatus: httpStatus, Status: httpStatus}
}
