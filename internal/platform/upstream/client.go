// Package upstream issues JSON requests against the external BatAudit API.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const maxErrorBody = 4 << 10

// ErrDecode marks a response body that could not be decoded or failed schema
// validation.
var ErrDecode = errors.New("upstream: decode response")

// StatusError reports a non-2xx response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("upstream: unexpected status %d", e.Code)
	}
	return fmt.Sprintf("upstream: unexpected status %d: %s", e.Code, e.Body)
}

// StatusCode extracts the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code
	}
	return 0
}

// Client performs GET requests and decodes validated JSON bodies.
type Client struct {
	baseURL    string
	httpClient *http.Client
	validate   *validator.Validate
}

// Option customises the client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTransport wraps requests with the given round tripper.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		if rt != nil {
			c.httpClient = &http.Client{Transport: rt}
		}
	}
}

// New builds a client for baseURL, which must be an absolute http(s) URL.
// The default HTTP client has no timeout; callers bound requests through ctx.
func New(baseURL string, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("upstream: parse base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("upstream: base url %q must use http or https", baseURL)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("upstream: base url %q has no host", baseURL)
	}
	c := &Client{
		baseURL:    strings.TrimRight(parsed.String(), "/"),
		httpClient: &http.Client{},
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalised base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Endpoint joins path and the raw query onto the base URL. An empty rawQuery
// yields no "?".
func (c *Client) Endpoint(path, rawQuery string) string {
	endpoint := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if rawQuery != "" {
		endpoint += "?" + rawQuery
	}
	return endpoint
}

// GetJSON fetches path and decodes the body into dest, then validates dest
// against its `validate` struct tags.
func (c *Client) GetJSON(ctx context.Context, path, rawQuery string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint(path, rawQuery), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID(ctx))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if err := c.validate.Struct(dest); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return nil
}

func requestID(ctx context.Context) string {
	if id := middleware.GetReqID(ctx); id != "" {
		return id
	}
	return uuid.NewString()
}
