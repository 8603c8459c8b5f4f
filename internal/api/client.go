// Package api implements the client for the bookstore assistant's query endpoint.
package api

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"go.uber.org/zap"

	"github.com/diogo/bookchat/internal/models"
)

// QueryClient is the behaviour the widget and commands need from a client
type QueryClient interface {
	Query(ctx context.Context, query string) (*models.QueryResponse, error)
	Endpoint() string
	Close()
	IsClosed() bool
}

// Client sends queries to the assistant endpoint
type Client struct {
	httpClient tls_client.HttpClient
	endpoint   string
	timeout    time.Duration
	logger     *zap.Logger
	mu         sync.RWMutex
	closed     bool
}

// Ensure Client implements QueryClient
var _ QueryClient = (*Client)(nil)

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithEndpoint sets the endpoint queries are sent to
func WithEndpoint(endpoint string) ClientOption {
	return func(c *Client) {
		c.endpoint = endpoint
	}
}

// WithTimeout bounds every query. Zero means no timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithHTTPClient replaces the underlying transport (used by tests)
func WithHTTPClient(httpClient tls_client.HttpClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the logger used for request diagnostics
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a new Client
func NewClient(opts ...ClientOption) (*Client, error) {
	client := &Client{
		endpoint: models.DefaultEndpoint,
		logger:   zap.NewNop(),
	}

	for _, opt := range opts {
		opt(client)
	}

	if err := validateEndpoint(client.endpoint); err != nil {
		return nil, err
	}
	if client.timeout < 0 {
		return nil, fmt.Errorf("timeout cannot be negative: %s", client.timeout)
	}

	if client.httpClient == nil {
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(int(client.timeout / time.Second)),
			tls_client.WithClientProfile(profiles.Chrome_120),
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// validateEndpoint checks that endpoint is an absolute http(s) URL
func validateEndpoint(endpoint string) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid endpoint %q: scheme must be http or https", endpoint)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid endpoint %q: missing host", endpoint)
	}
	return nil
}

// Endpoint returns the configured endpoint
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Timeout returns the per-query timeout (zero when unbounded)
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Close releases idle connections; later queries fail
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	c.httpClient.CloseIdleConnections()
}

// IsClosed returns whether the client is closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}
