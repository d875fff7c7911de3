package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/rezept"
)

// Ensure LoggingSitemapService implements rezept.SitemapService.
var _ rezept.SitemapService = (*LoggingSitemapService)(nil)

// LoggingSitemapService logs each recipe URL discovery.
type LoggingSitemapService struct {
	next   rezept.SitemapService
	logger *slog.Logger
}

// NewLoggingSitemapService creates a new LoggingSitemapService.
func NewLoggingSitemapService(next rezept.SitemapService, logger *slog.Logger) *LoggingSitemapService {
	return &LoggingSitemapService{next: next, logger: logger}
}

// DiscoverURLs logs the site, the number of include and exclude patterns
// and how many recipe URLs were found. Failures are logged at warn level.
func (s *LoggingSitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *rezept.URLFilter) (urls []string, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"site", siteOf(baseURL),
			"include", 0,
			"exclude", 0,
			"recipes", len(urls),
			"duration", time.Since(begin),
		}
		if filter != nil {
			attrs[3], attrs[5] = len(filter.Include), len(filter.Exclude)
		}
		if err != nil {
			s.logger.Warn("discover recipes", append(attrs, "err", err)...)
			return
		}
		s.logger.Info("discover recipes", attrs...)
	}(time.Now())
	return s.next.DiscoverURLs(ctx, baseURL, filter)
}

// siteOf returns the domain of rawURL, or rawURL itself when it has none.
func siteOf(rawURL string) string {
	if d, err := rezept.ExtractDomain(rawURL); err == nil {
		return d
	}
	return rawURL
}
