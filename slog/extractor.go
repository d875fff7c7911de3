package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/rezept"
)

// Ensure LoggingExtractor implements rezept.Extractor.
var _ rezept.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with debug logging of which fields
// it filled.
type LoggingExtractor struct {
	name   string
	next   rezept.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor. The name identifies
// the extractor in log lines.
func NewLoggingExtractor(name string, next rezept.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{name: name, next: next, logger: logger}
}

// Extract delegates to the wrapped extractor.
func (e *LoggingExtractor) Extract(html string, recipe *rezept.Recipe) (err error) {
	before := filledFields(recipe)
	defer func(begin time.Time) {
		e.logger.Debug("extract",
			"extractor", e.name,
			"url", recipe.SourceURL,
			"filled", filledFields(recipe)-before,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(html, recipe)
}

func filledFields(r *rezept.Recipe) int {
	var n int
	for _, s := range []string{r.Title, r.Description, r.PrepTime, r.CookTime, r.Servings, r.Cuisine} {
		if s != "" {
			n++
		}
	}
	if len(r.Ingredients) > 0 {
		n++
	}
	if len(r.Instructions) > 0 {
		n++
	}
	return n
}
