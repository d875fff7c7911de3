package rezept

import "context"

// Fetcher retrieves page HTML from URLs.
// Implementations may use a plain HTTP client or browser automation for
// JavaScript-rendered pages.
type Fetcher interface {
	// Fetch retrieves the URL and returns its HTML.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases fetcher resources.
	Close() error
}
