package poeninja

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the poe.ninja data API root
	DefaultBaseURL = "https://poe.ninja/api/data"

	// DefaultTimeout bounds a single request, body included
	DefaultTimeout = 30 * time.Second

	defaultUserAgent = "exilian"
)

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=poeninja_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is a client for the poe.ninja data API
type Client struct {
	// baseURL is the API root, without a trailing slash
	baseURL string
	// httpClient executes the requests
	httpClient HTTPClient
	// header is sent with every request
	header http.Header
	// now stamps fetched snapshots
	now func() time.Time
}

// Option is a configuration option for the Client
type Option func(*Client)

// WithBaseURL sets the base URL for the API
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient sets the HTTP client for the API
func WithHTTPClient(httpClient HTTPClient) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithHeader sets additional headers to be sent with each request
func WithHeader(header http.Header) Option {
	return func(c *Client) {
		for key, values := range header {
			for _, value := range values {
				c.header.Add(key, value)
			}
		}
	}
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.header.Set("User-Agent", userAgent)
	}
}

// WithClock sets the clock used to stamp snapshots
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// NewClient creates a new poe.ninja API client
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		header: http.Header{},
		now:    time.Now,
	}

	c.header.Set("User-Agent", defaultUserAgent)
	c.header.Set("Accept", "application/json")

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// get executes a GET on the endpoint and returns the full response body,
// along with the moment the body was read
func (c *Client) get(ctx context.Context, endpoint string, query url.Values) ([]byte, time.Time, error) {
	// Prepare the request
	u := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("unable to create new GET request: %w", err)
	}

	req.Header = c.header.Clone()

	// Execute the request
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain the body so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)

		return nil, time.Time{}, &StatusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("%w: unable to read response body: %w", ErrUnreachable, err)
	}

	return body, c.now(), nil
}
