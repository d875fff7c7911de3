package rezept

import (
	"context"
	"time"
)

// RecipeDocument is a rendered recipe as kept in the recipe store.
type RecipeDocument struct {
	ID        string
	SourceURL string
	Title     string
	Cuisine   string
	PrepTime  string
	CookTime  string
	Servings  string
	Tags      []string
	Content   string

	// ContentHash identifies the rendered content for change detection.
	ContentHash string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate returns an error if the document is missing required fields.
func (d *RecipeDocument) Validate() error {
	if d.SourceURL == "" {
		return Errorf(EINVALID, "recipe source url required")
	}
	if d.Content == "" {
		return Errorf(EINVALID, "recipe content required")
	}
	return nil
}

// NewRecipeDocument builds a store document from a successful result.
func NewRecipeDocument(res *Result) (*RecipeDocument, error) {
	if res == nil || !res.Success {
		return nil, Errorf(EINVALID, "cannot store failed result")
	}
	doc := &RecipeDocument{
		SourceURL: res.URL,
		Content:   res.Content,
	}
	if m := res.Meta; m != nil {
		doc.Title = m.Title
		doc.Cuisine = m.Cuisine
		doc.PrepTime = m.PrepTime
		doc.CookTime = m.CookTime
		doc.Servings = m.Servings
		doc.Tags = m.Tags
	}
	return doc, nil
}

// SearchOptions configures a recipe search.
type SearchOptions struct {
	// Limit caps the number of results. Zero means the store default.
	Limit int

	// MinScore drops results scoring below it.
	MinScore float64

	// Cuisine restricts results to a cuisine when set.
	Cuisine string
}

// SearchResult is a document matched by a search, with its relevance score
// in [0, 1].
type SearchResult struct {
	Document *RecipeDocument
	Score    float64
}

// RecipeStore persists rendered recipes and searches them.
type RecipeStore interface {
	// AddRecipe stores a document. A document with the same source URL
	// is replaced.
	AddRecipe(ctx context.Context, doc *RecipeDocument) error

	// SearchRecipes returns documents matching query, best first.
	SearchRecipes(ctx context.Context, query string, opts SearchOptions) ([]*SearchResult, error)

	// CountRecipes returns the number of stored documents.
	CountRecipes(ctx context.Context) (int, error)
}

// Embedder produces vector embeddings for semantic search.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// RecipeWriter persists rendered results outside the store.
type RecipeWriter interface {
	// WriteResult writes a successful result and returns where it went.
	WriteResult(res *Result) (string, error)
}

// RecipeLoader reads previously rendered recipe documents.
type RecipeLoader interface {
	LoadRecipes(ctx context.Context) ([]*RecipeDocument, error)
}

// MarkdownParser recovers a recipe record from rendered markdown.
type MarkdownParser interface {
	ParseMarkdown(content string) (*Recipe, error)
}
