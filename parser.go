package rezept

import "context"

// RecipeParser turns recipe URLs into rendered markdown results.
// Failures are reported in the returned results, never as errors.
type RecipeParser interface {
	// Parse runs the full pipeline for a single URL.
	Parse(ctx context.Context, url string) *Result

	// ParseAll parses urls concurrently. The i-th result belongs to urls[i].
	ParseAll(ctx context.Context, urls []string) []*Result
}

// DomainLimiter rate limits requests per domain.
type DomainLimiter interface {
	// Wait blocks until a request to domain is allowed or ctx is done.
	Wait(ctx context.Context, domain string) error
}
