// Package suggest fetches movie-title suggestions from a search endpoint.
package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"golang.org/x/time/rate"

	"github.com/abelbrown/marquee/internal/logging"
)

// maxBody caps how much of a response is read.
const maxBody = 1 << 20

// Suggester returns titles for a query. Implementations never fail: any
// problem yields an empty result.
type Suggester interface {
	Suggest(ctx context.Context, query string) []string
}

// StatusError is returned by Fetch for non-2xx responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("search endpoint error (status %d): %s", e.Code, e.Body)
}

// Client queries GET {endpoint}/search?query=<q>, which answers with a JSON
// array of titles.
type Client struct {
	endpoint string
	client   *http.Client
	limiter  *rate.Limiter
}

// Option customizes a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.client.Timeout = d }
}

// WithRateLimit caps requests per second. Zero or less means unlimited.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond <= 0 || math.IsInf(perSecond, 1) {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// NewClient creates a client for the server at endpoint, e.g.
// "http://127.0.0.1:5000". Defaults: 10s timeout, 5 requests/s.
func NewClient(endpoint string, opts ...Option) *Client {
	hc := cleanhttp.DefaultPooledClient()
	hc.Timeout = 10 * time.Second

	c := &Client{
		endpoint: endpoint,
		client:   hc,
		limiter:  rate.NewLimiter(rate.Limit(5), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the configured base URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// SearchURL returns the request URL for query.
func (c *Client) SearchURL(query string) (string, error) {
	u, err := url.JoinPath(c.endpoint, "search")
	if err != nil {
		return "", fmt.Errorf("build search url: %w", err)
	}
	return u + "?" + url.Values{"query": {query}}.Encode(), nil
}

// Suggest returns the titles for query. Transport failures, non-2xx statuses
// and malformed bodies are logged and yield an empty slice.
func (c *Client) Suggest(ctx context.Context, query string) []string {
	titles, err := c.Fetch(ctx, query)
	if err != nil {
		logging.Warn("suggest: fetch failed", "query", query, "err", err)
		return []string{}
	}
	return titles
}

// Fetch is Suggest with the error surfaced. A JSON null is returned as an
// empty slice.
func (c *Client) Fetch(ctx context.Context, query string) ([]string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	target, err := c.SearchURL(query)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Body: truncate(string(body), 200)}
	}

	var titles []string
	if err := json.Unmarshal(body, &titles); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if titles == nil {
		titles = []string{}
	}
	return titles, nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}
