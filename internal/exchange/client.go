package exchange

import (
	"net/http"
	"time"
)

// Client talks to a Binance-style klines REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	pageLimit  int
}

// Option configures the exchange client
type Option func(*Client)

// WithBaseURL sets the API base URL
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithTimeout sets the HTTP client timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = timeout }
}

// WithPageLimit caps the number of candles requested per page. Many
// gateways dislike big limits combined with time filters.
func WithPageLimit(limit int) Option {
	return func(c *Client) {
		if limit > 0 {
			c.pageLimit = limit
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client (tests).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// NewClient creates a new exchange client with the given options
func NewClient(opts ...Option) *Client {
	client := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    "https://api.binance.com/api/v3",
		pageLimit:  200,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}
