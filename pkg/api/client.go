package api

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

	"github.com/google/uuid"

	pkgerrors "github.com/gemkart/storefront/pkg/errors"
	"github.com/gemkart/storefront/pkg/logger"
	"github.com/gemkart/storefront/pkg/metrics"
)

const responseBodyReadLimit int64 = 1 << 20

var errBaseURLRequired = errors.New("backend base URL is required")

// TokenSource supplies the bearer token attached to authenticated requests.
// An empty token means the request goes out anonymous.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a plain function to a TokenSource.
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// Client is the storefront's HTTP surface onto the backend. Every call takes a
// context and is cancelled with it; nothing retries automatically.
type Client struct {
	httpClient *http.Client
	baseURL    string
	tokens     TokenSource
	logg       *logger.Logger
	metrics    *metrics.RequestMetrics
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTokenSource wires the credential lookup used for bearer auth.
func WithTokenSource(tokens TokenSource) Option {
	return func(c *Client) {
		c.tokens = tokens
	}
}

// WithLogger attaches a structured logger to every request boundary.
func WithLogger(logg *logger.Logger) Option {
	return func(c *Client) {
		c.logg = logg
	}
}

// WithMetrics records request durations and outcomes.
func WithMetrics(m *metrics.RequestMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient builds a backend client rooted at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}

	client := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return client, nil
}

// call describes one request to the backend.
type call struct {
	method   string
	path     string        // concrete request path
	endpoint string        // metric label, IDs stripped
	body     any           // marshaled as JSON when non-nil
	out      any           // decoded from the response body when non-nil
	authed   bool          // attach bearer token
}

func (c *Client) do(ctx context.Context, req call) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeNetwork, "backend client not configured")
	}
	if req.endpoint == "" {
		req.endpoint = req.path
	}

	var payload io.Reader
	if req.body != nil {
		encoded, err := json.Marshal(req.body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "encode request body")
		}
		payload = bytes.NewReader(encoded)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, payload)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeNetwork, err, "build request")
	}
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.authed && c.tokens != nil {
		if token := strings.TrimSpace(c.tokens.Token()); token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	ctx = c.withRequestLog(ctx, req)
	c.logDebug(ctx, "request dispatched")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	c.metrics.ObserveDuration(req.endpoint, req.method, time.Since(start))
	if err != nil {
		wrapped := pkgerrors.Wrap(pkgerrors.CodeNetwork, err, "request failed")
		c.finish(ctx, req, wrapped)
		return wrapped
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
	if err != nil {
		wrapped := pkgerrors.Wrap(pkgerrors.CodeNetwork, err, "read response")
		c.finish(ctx, req, wrapped)
		return wrapped
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		mapped := c.mapResponseError(resp.StatusCode, body)
		c.finish(ctx, req, mapped)
		return mapped
	}

	if req.out != nil && len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, req.out); err != nil {
			wrapped := pkgerrors.Wrap(pkgerrors.CodeServer, err, "decode response")
			c.finish(ctx, req, wrapped)
			return wrapped
		}
	}

	c.finish(ctx, req, nil)
	return nil
}

// mapResponseError folds a non-2xx response into the client error taxonomy,
// preferring the server's own message when the payload carries one.
func (c *Client) mapResponseError(status int, body []byte) *pkgerrors.Error {
	code := pkgerrors.CodeForStatus(status)

	var serverErr struct {
		Message string `json:"message"`
	}
	message := ""
	if err := json.Unmarshal(body, &serverErr); err == nil {
		message = strings.TrimSpace(serverErr.Message)
	}
	if message == "" {
		message = pkgerrors.MetadataFor(code).UserMessage
	}
	return pkgerrors.Wrap(code, fmt.Errorf("status %d", status), message)
}

func (c *Client) withRequestLog(ctx context.Context, req call) context.Context {
	if c.logg == nil {
		return ctx
	}
	ctx = c.logg.WithRequestID(ctx, uuid.NewString())
	return c.logg.WithFields(ctx, map[string]any{
		"method":   req.method,
		"endpoint": req.endpoint,
	})
}

func (c *Client) finish(ctx context.Context, req call, err error) {
	if err == nil {
		c.metrics.IncSuccess(req.endpoint, req.method)
		c.logDebug(ctx, "request completed")
		return
	}
	code := string(pkgerrors.As(err).Code())
	c.metrics.IncFailure(req.endpoint, req.method, code)
	if c.logg != nil {
		c.logg.Warn(c.logg.WithField(ctx, "code", code), "request failed")
	}
}

func (c *Client) logDebug(ctx context.Context, msg string) {
	if c.logg != nil {
		c.logg.Debug(ctx, msg)
	}
}
