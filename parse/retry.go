package parse

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/rezept"
)

var _ rezept.Fetcher = (*RetryFetcher)(nil)

// BackoffDelays returns n exponential delays starting at one second.
func BackoffDelays(n int) []time.Duration {
	delays := make([]time.Duration, n)
	for i := range delays {
		delays[i] = time.Second << i
	}
	return delays
}

// RetryFetcher retries failed fetches, waiting Delays[i] before retry i+1.
// Only errors for which Retryable returns true are retried; a nil
// Retryable retries every error.
type RetryFetcher struct {
	Fetcher   rezept.Fetcher
	Delays    []time.Duration
	Retryable func(error) bool
	Logger    *slog.Logger
}

// Fetch implements rezept.Fetcher.
func (f *RetryFetcher) Fetch(ctx context.Context, url string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= len(f.Delays); attempt++ {
		html, err := f.Fetcher.Fetch(ctx, url)
		if err == nil {
			return html, nil
		}
		lastErr = err

		if attempt == len(f.Delays) || (f.Retryable != nil && !f.Retryable(err)) {
			break
		}
		if f.Logger != nil {
			f.Logger.Debug("retry fetch", "url", url, "attempt", attempt+2, "err", err)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(f.Delays[attempt]):
		}
	}
	return "", lastErr
}

// Close closes the wrapped fetcher.
func (f *RetryFetcher) Close() error {
	return f.Fetcher.Close()
}
