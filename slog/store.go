package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/rezept"
)

// Ensure LoggingRecipeStore implements rezept.RecipeStore.
var _ rezept.RecipeStore = (*LoggingRecipeStore)(nil)

// LoggingRecipeStore wraps a RecipeStore with logging.
type LoggingRecipeStore struct {
	next   rezept.RecipeStore
	logger *slog.Logger
}

// NewLoggingRecipeStore creates a new LoggingRecipeStore.
func NewLoggingRecipeStore(next rezept.RecipeStore, logger *slog.Logger) *LoggingRecipeStore {
	return &LoggingRecipeStore{next: next, logger: logger}
}

func (s *LoggingRecipeStore) AddRecipe(ctx context.Context, doc *rezept.RecipeDocument) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("add recipe",
			"url", doc.SourceURL,
			"title", doc.Title,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.AddRecipe(ctx, doc)
}

func (s *LoggingRecipeStore) SearchRecipes(ctx context.Context, query string, opts rezept.SearchOptions) (results []*rezept.SearchResult, err error) {
	defer func(begin time.Time) {
		s.logger.Info("search recipes",
			"query", query,
			"cuisine", opts.Cuisine,
			"count", len(results),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.SearchRecipes(ctx, query, opts)
}

func (s *LoggingRecipeStore) CountRecipes(ctx context.Context) (n int, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("count recipes",
			"count", n,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CountRecipes(ctx)
}
