// Package transport provides the authenticated HTTP transport used by API clients
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/terms/internal/common"
	"github.com/bobmcallan/terms/internal/interfaces"
)

const (
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 10 // requests per second
)

// Client is an authenticated HTTP transport. It owns bearer auth, rate
// limiting, and failure classification. Callers build URLs and decode
// payloads themselves.
type Client struct {
	token      string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the transport
type ClientOption func(*Client)

// WithToken sets the bearer token sent with each request
func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = token
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new transport
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// RequestError is returned for non-2xx responses. Body holds the raw
// response payload so callers can decode the server's error shape.
type RequestError struct {
	StatusCode int
	Body       []byte
	URL        string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed: status %d (url: %s)", e.StatusCode, e.URL)
}

// SendGetRequest performs a rate-limited GET and returns the response body
func (c *Client) SendGetRequest(ctx context.Context, url string) ([]byte, error) {
	return c.send(ctx, http.MethodGet, url, nil)
}

// SendPostRequest performs a rate-limited POST with a JSON body and
// returns the response body
func (c *Client) SendPostRequest(ctx context.Context, url string, body []byte) ([]byte, error) {
	return c.send(ctx, http.MethodPost, url, body)
}

func (c *Client) send(ctx context.Context, method, url string, body []byte) ([]byte, error) {
	// Wait for rate limiter
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", common.UserAgent())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.logger.Debug().Str("method", method).Str("url", url).Msg("terms API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &RequestError{
			StatusCode: resp.StatusCode,
			Body:       data,
			URL:        url,
		}
	}

	return data, nil
}

// Ensure Client implements Transport
var _ interfaces.Transport = (*Client)(nil)
