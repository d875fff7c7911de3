package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/rezept"
)

// Ensure LoggingParser implements rezept.RecipeParser.
var _ rezept.RecipeParser = (*LoggingParser)(nil)

// LoggingParser wraps a RecipeParser with logging. Failures are logged at
// warn level with their error code.
type LoggingParser struct {
	next   rezept.RecipeParser
	logger *slog.Logger
}

// NewLoggingParser creates a new LoggingParser.
func NewLoggingParser(next rezept.RecipeParser, logger *slog.Logger) *LoggingParser {
	return &LoggingParser{next: next, logger: logger}
}

// Parse delegates to the wrapped parser and logs the outcome.
func (p *LoggingParser) Parse(ctx context.Context, url string) (res *rezept.Result) {
	defer func(begin time.Time) {
		p.logResult(ctx, res, time.Since(begin))
	}(time.Now())
	return p.next.Parse(ctx, url)
}

// ParseAll delegates to the wrapped parser and logs a batch summary.
func (p *LoggingParser) ParseAll(ctx context.Context, urls []string) (results []*rezept.Result) {
	defer func(begin time.Time) {
		p.logger.Info("parse batch",
			"urls", len(urls),
			"failed", len(rezept.Failed(results)),
			"duration", time.Since(begin),
		)
	}(time.Now())
	return p.next.ParseAll(ctx, urls)
}

func (p *LoggingParser) logResult(ctx context.Context, res *rezept.Result, d time.Duration) {
	if res == nil {
		return
	}
	if res.Success {
		p.logger.InfoContext(ctx, "parse",
			"url", res.URL,
			"bytes", len(res.Content),
			"duration", d,
		)
		return
	}
	p.logger.WarnContext(ctx, "parse",
		"url", res.URL,
		"code", res.Code,
		"err", res.Error,
		"duration", d,
	)
}
