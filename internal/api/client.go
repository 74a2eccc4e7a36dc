// Package api is the transport side of the sync client: it performs requests against
// the remote reader API, reports what came back, and decodes response bodies.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	defaultTimeout = 30 * time.Second
	maxBodyBytes   = 32 << 20
)

// Config holds the settings used to build a Client.
type Config struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration

	// HTTPClient overrides the underlying client; Timeout is ignored when set.
	HTTPClient *http.Client
}

// Response is the raw outcome of one round trip.
type Response struct {
	StatusCode int
	// Redirected is true when the server sent the request somewhere other than
	// the endpoint it was addressed to.
	Redirected bool
	// SessionToken is the value of the session cookie set by the response, if any.
	SessionToken string
	Body         []byte
}

// OK reports whether the call succeeded: status 200 and no redirect.
func (r *Response) OK() bool {
	return r != nil && r.StatusCode == http.StatusOK && !r.Redirected
}

// TransportError means the request could not be completed at all
// (DNS, TLS, connection reset, timeout, unreadable body).
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the request gave up waiting for the server.
func (e *TransportError) Timeout() bool {
	var netErr net.Error
	if errors.As(e.Err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// Client performs requests against the remote API. It keeps no per-session state:
// the session token is passed into every call.
type Client struct {
	baseURL   *url.URL
	userAgent string
	http      *http.Client
}

// NewClient creates a Client for the API rooted at cfg.BaseURL.
func NewClient(cfg Config) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base URL %q must be absolute", cfg.BaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:   base,
		userAgent: cfg.UserAgent,
		http:      httpClient,
	}, nil
}

// Get issues a GET with params in the query string.
func (c *Client) Get(ctx context.Context, path string, params url.Values, token string) (*Response, error) {
	return c.do(ctx, http.MethodGet, path, params, token)
}

// Post issues a form-encoded POST.
func (c *Client) Post(ctx context.Context, path string, params url.Values, token string) (*Response, error) {
	return c.do(ctx, http.MethodPost, path, params, token)
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values, token string) (*Response, error) {
	endpoint := c.baseURL.JoinPath(path)

	var body io.Reader
	if method == http.MethodGet {
		endpoint.RawQuery = params.Encode()
	} else {
		body = strings.NewReader(params.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Method: method, URL: endpoint.Redacted(), Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &TransportError{Method: method, URL: endpoint.Redacted(), Err: fmt.Errorf("failed to read response body (status %d): %w", resp.StatusCode, err)}
	}

	result := &Response{
		StatusCode: resp.StatusCode,
		Redirected: redirected(endpoint, resp),
		Body:       data,
	}
	for _, cookie := range resp.Cookies() {
		if cookie.Name == SessionCookieName {
			result.SessionToken = cookie.Value
		}
	}

	log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", result.StatusCode).
		Bool("redirected", result.Redirected).
		Int("bytes", len(data)).
		Dur("elapsed", time.Since(started)).
		Msg("API request completed")

	return result, nil
}

// redirected compares the URL that produced the final response with the one requested.
// The query string is ignored so that a server normalizing parameters does not count.
func redirected(requested *url.URL, resp *http.Response) bool {
	if resp.Request == nil || resp.Request.URL == nil {
		return false
	}
	final := resp.Request.URL
	return final.Scheme != requested.Scheme ||
		final.Host != requested.Host ||
		strings.TrimSuffix(final.Path, "/") != strings.TrimSuffix(requested.Path, "/")
}
