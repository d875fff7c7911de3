package mock

import (
	"context"

	"github.com/fwojciec/rezept"
)

var (
	_ rezept.RecipeStore    = (*RecipeStore)(nil)
	_ rezept.Embedder       = (*Embedder)(nil)
	_ rezept.RecipeWriter   = (*RecipeWriter)(nil)
	_ rezept.RecipeLoader   = (*RecipeLoader)(nil)
	_ rezept.MarkdownParser = (*MarkdownParser)(nil)
)

// RecipeStore is a mock implementation of rezept.RecipeStore.
type RecipeStore struct {
	AddRecipeFn     func(ctx context.Context, doc *rezept.RecipeDocument) error
	SearchRecipesFn func(ctx context.Context, query string, opts rezept.SearchOptions) ([]*rezept.SearchResult, error)
	CountRecipesFn  func(ctx context.Context) (int, error)
}

func (s *RecipeStore) AddRecipe(ctx context.Context, doc *rezept.RecipeDocument) error {
	return s.AddRecipeFn(ctx, doc)
}

func (s *RecipeStore) SearchRecipes(ctx context.Context, query string, opts rezept.SearchOptions) ([]*rezept.SearchResult, error) {
	return s.SearchRecipesFn(ctx, query, opts)
}

func (s *RecipeStore) CountRecipes(ctx context.Context) (int, error) {
	return s.CountRecipesFn(ctx)
}

// Embedder is a mock implementation of rezept.Embedder.
type Embedder struct {
	EmbedFn func(ctx context.Context, text string) ([]float32, error)
}

func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return e.EmbedFn(ctx, text)
}

// RecipeWriter is a mock implementation of rezept.RecipeWriter.
type RecipeWriter struct {
	WriteResultFn func(res *rezept.Result) (string, error)
}

func (w *RecipeWriter) WriteResult(res *rezept.Result) (string, error) {
	return w.WriteResultFn(res)
}

// RecipeLoader is a mock implementation of rezept.RecipeLoader.
type RecipeLoader struct {
	LoadRecipesFn func(ctx context.Context) ([]*rezept.RecipeDocument, error)
}

func (l *RecipeLoader) LoadRecipes(ctx context.Context) ([]*rezept.RecipeDocument, error) {
	return l.LoadRecipesFn(ctx)
}

// MarkdownParser is a mock implementation of rezept.MarkdownParser.
type MarkdownParser struct {
	ParseMarkdownFn func(content string) (*rezept.Recipe, error)
}

func (p *MarkdownParser) ParseMarkdown(content string) (*rezept.Recipe, error) {
	return p.ParseMarkdownFn(content)
}
