// Package slog provides logging decorators for rezept services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/rezept"
)

// Ensure LoggingFetcher implements rezept.Fetcher.
var _ rezept.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher logs every recipe page fetch.
type LoggingFetcher struct {
	next   rezept.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next rezept.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch logs the page size and the site it came from. Failed fetches are
// logged at warn level.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"url", url,
			"site", siteOf(url),
			"bytes", len(html),
			"duration", time.Since(begin),
		}
		if err != nil {
			f.logger.Warn("fetch recipe page", append(attrs, "err", err)...)
			return
		}
		f.logger.Info("fetch recipe page", attrs...)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
