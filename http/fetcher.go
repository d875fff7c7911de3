// Package http provides net/http implementations of rezept.Fetcher and
// rezept.SitemapService for recipe sites that serve server-rendered HTML.
package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/rezept"
	"golang.org/x/net/html/charset"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
// Kept consistent with rod.DefaultFetchTimeout.
const DefaultFetchTimeout = 10 * time.Second

// DefaultUserAgent identifies requests. Several recipe sites reject the Go
// default user agent.
const DefaultUserAgent = "Mozilla/5.0 (compatible; rezept/1.0; +https://github.com/fwojciec/rezept)"

// DefaultAcceptLanguage asks for German content first.
const DefaultAcceptLanguage = "de-DE,de;q=0.9,en;q=0.5"

// DefaultMaxBodySize caps the size of a page. Larger pages are rejected
// rather than parsed partially.
const DefaultMaxBodySize = 10 << 20

// Ensure Fetcher implements rezept.Fetcher at compile time.
var _ rezept.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML content from URLs using HTTP requests.
// Unlike rod.Fetcher, this does not execute JavaScript.
// Responses are decoded to UTF-8 using the declared or sniffed charset.
type Fetcher struct {
	client *http.Client
	config
}

// config holds settings shared by Fetcher and SitemapService.
type config struct {
	timeout        time.Duration
	userAgent      string
	acceptLanguage string
	maxBodySize    int64
}

func defaultConfig() config {
	return config{
		timeout:        DefaultFetchTimeout,
		userAgent:      DefaultUserAgent,
		acceptLanguage: DefaultAcceptLanguage,
		maxBodySize:    DefaultMaxBodySize,
	}
}

// Option configures a Fetcher or SitemapService.
type Option func(*config)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		c.timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *config) {
		c.userAgent = ua
	}
}

// WithAcceptLanguage sets the Accept-Language header.
func WithAcceptLanguage(lang string) Option {
	return func(c *config) {
		c.acceptLanguage = lang
	}
}

// WithMaxBodySize limits how many bytes of a response body are read.
// Fetch rejects pages above the limit.
func WithMaxBodySize(n int64) Option {
	return func(c *config) {
		c.maxBodySize = n
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{config: defaultConfig()}
	for _, opt := range opts {
		opt(&f.config)
	}
	f.client = &http.Client{
		Timeout: f.timeout,
	}
	return f
}

// Fetch retrieves the HTML content from the given URL.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	resp, err := f.get(ctx, f.client, url, "text/html,application/xhtml+xml")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize+1))
	if err != nil {
		return "", err
	}
	if int64(len(raw)) > f.maxBodySize {
		return "", fmt.Errorf("response body for %s exceeds %d bytes", url, f.maxBodySize)
	}

	r, err := charset.NewReader(bytes.NewReader(raw), resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", url, err)
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}

// get issues a GET request with the configured headers. Any status other
// than 200 is an error and the body is closed.
func (c *config) get(ctx context.Context, client *http.Client, url, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Language", c.acceptLanguage)
	req.Header.Set("Accept", accept)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: url}
	}
	return resp, nil
}

// StatusError reports a response with a status other than 200 OK.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
}

// IsTransient reports whether a fetch error is worth retrying: server
// errors, 429 responses and network failures. Other HTTP statuses are not.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode >= 500 || se.StatusCode == http.StatusTooManyRequests
	}
	return !errors.Is(err, context.Canceled)
}
