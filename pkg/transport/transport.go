// Package transport sends workflow payloads to the remote processing API.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dtnitsch/docmark/pkg/payload"
	"github.com/google/uuid"
)

// Endpoint is one of the fixed logical endpoints of the processing API.
type Endpoint string

const (
	EndpointFilterByMode Endpoint = "filter-by-mode"
	EndpointStamp        Endpoint = "stamp"
)

var endpointPaths = map[Endpoint]string{
	EndpointFilterByMode: "/detect-filter",
	EndpointStamp:        "/stamp",
}

var (
	ErrUnknownEndpoint = errors.New("unknown endpoint")
	// ErrPayload marks failures to encode the request body. Nothing was sent.
	ErrPayload = errors.New("encode payload")
)

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Client posts payloads to a base URL. It never retries. With a zero
// timeout a request blocks until the server answers or the context ends.
type Client struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
	logger  *slog.Logger
}

type Option func(*Client)

// WithTimeout bounds each request, including reading the response body.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

func NewClient(baseURL string, logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the absolute URL of an endpoint.
func (c *Client) URL(endpoint Endpoint) (string, error) {
	path, ok := endpointPaths[endpoint]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownEndpoint, endpoint)
	}
	return c.baseURL + path, nil
}

// Post sends p to endpoint as a single multipart POST and reads the full
// response. A returned error wrapping ErrPayload or ErrUnknownEndpoint means
// nothing was sent; any other error is a transport failure.
func (c *Client) Post(ctx context.Context, endpoint Endpoint, p *payload.Payload) (*Response, error) {
	url, err := c.URL(endpoint)
	if err != nil {
		return nil, err
	}
	body, contentType, err := p.Encode()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPayload, err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	return c.do(req, endpoint, len(body))
}

func (c *Client) do(req *http.Request, endpoint Endpoint, size int) (*Response, error) {
	reqID := uuid.New().String()
	start := time.Now()

	c.logger.Info("transport.request",
		"req_id", reqID,
		"endpoint", endpoint,
		"url", req.URL.String(),
		"content_length", size,
	)

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("transport.send_error", "req_id", reqID, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return nil, err
	}
	defer func(body io.ReadCloser) {
		if err := body.Close(); err != nil {
			c.logger.Warn("transport.response_body_close_error", "req_id", reqID, "error", err)
		}
	}(resp.Body)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("transport.read_error", "req_id", reqID, "status", resp.StatusCode, "error", err)
		return nil, fmt.Errorf("read response body: %w", err)
	}

	c.logger.Info("transport.response",
		"req_id", reqID,
		"endpoint", endpoint,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       raw,
	}, nil
}

type healthResponse struct {
	Status string `json:"status"`
}

// Health checks GET <base>/health and expects {"status":"ok"}.
func (c *Client) Health(ctx context.Context) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := c.do(req, "health", 0)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return fmt.Errorf("health check failed: status %d", resp.StatusCode)
	}

	var parsed healthResponse
	if err := json.Unmarshal(resp.Body, &parsed); err != nil {
		return fmt.Errorf("decode health response: %w", err)
	}
	if parsed.Status != "ok" {
		return fmt.Errorf("health check failed: status %q", parsed.Status)
	}
	return nil
}
