// Package canvasapi provides a hand-written Canvas LMS REST API client.
//
// Canvas publishes no maintained OpenAPI document, so the client is written
// against the documented conventions directly: all resources live under
// /api/v1, collections are page-numbered via page/per_page, nested
// sub-resources are expanded with include[] parameters, and error responses
// carry a JSON body with an "errors" field.
package canvasapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"canvasmcp/server/internal/metrics"
)

const apiPrefix = "/api/v1"

// Client is the single point of outbound communication with Canvas.
// It owns the bearer credential; the token is attached to every request
// and never logged or surfaced in output.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (mainly for tests).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New creates a Canvas API client for the given base address and bearer token.
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get issues a GET request and returns the raw JSON body.
func (c *Client) Get(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, nil, params)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any, params url.Values) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, path, body, params)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body any, params url.Values) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPut, path, body, params)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	return c.do(ctx, http.MethodDelete, path, nil, params)
}

// do performs one HTTP call. Any 2xx returns the raw body; everything else
// is normalized into *APIError. No retries: retry policy, if any, belongs
// to the caller.
func (c *Client) do(ctx context.Context, method, path string, body any, params url.Values) (json.RawMessage, error) {
	endpoint := c.baseURL + apiPrefix + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	ctx, span := otel.Tracer("canvasapi").Start(ctx, "canvas."+strings.ToLower(method))
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("canvas.path", path),
	)

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "failed to encode request body")
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, &APIError{Message: "failed to create request: " + err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		metrics.UpstreamRequests.WithLabelValues(method, "transport_error").Inc()
		return nil, &APIError{Message: "request failed: " + err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		metrics.UpstreamRequests.WithLabelValues(method, "transport_error").Inc()
		return nil, &APIError{Message: "failed to read response: " + err.Error()}
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	metrics.UpstreamRequests.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()
	metrics.UpstreamRequestDuration.Observe(time.Since(start).Seconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := normalizeError(resp.StatusCode, raw)
		span.SetStatus(codes.Error, apiErr.Error())
		return nil, apiErr
	}

	// Some writes (DELETE in particular) legitimately return no body.
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}
	if !jx.Valid(raw) {
		return nil, &APIError{Message: "failed to decode response: not valid JSON"}
	}
	return json.RawMessage(raw), nil
}
