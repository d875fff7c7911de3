package sqlite

import (
	"cmp"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/fwojciec/rezept"
	"github.com/google/uuid"
)

// DefaultSearchLimit caps search results when SearchOptions.Limit is zero.
const DefaultSearchLimit = 10

// Compile-time interface verification.
var _ rezept.RecipeStore = (*RecipeStore)(nil)

// RecipeStore implements rezept.RecipeStore using SQLite.
//
// With an Embedder set, documents are embedded on write and searches rank
// by cosine similarity. Without one, searches rank by keyword matches.
type RecipeStore struct {
	db       *DB
	embedder rezept.Embedder
	now      func() time.Time
}

// NewRecipeStore creates a new RecipeStore. The embedder may be nil.
func NewRecipeStore(db *DB, embedder rezept.Embedder) *RecipeStore {
	return &RecipeStore{db: db, embedder: embedder, now: time.Now}
}

// AddRecipe stores doc, replacing any document with the same source URL.
// The ID and creation time of a replaced document are kept. The embedding
// is only recomputed when the content changed; changed content stored
// without an embedder drops the old vector.
func (s *RecipeStore) AddRecipe(ctx context.Context, doc *rezept.RecipeDocument) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	doc.ContentHash = hashContent(doc.Content)
	doc.Cuisine = strings.ToLower(strings.TrimSpace(doc.Cuisine))
	tags, err := json.Marshal(nonNil(doc.Tags))
	if err != nil {
		return err
	}

	var embedding any
	if s.embedder != nil {
		var prevHash string
		var hasEmbedding bool
		err := s.db.QueryRowContext(ctx,
			`SELECT content_hash, embedding IS NOT NULL FROM recipes WHERE source_url = ?`,
			doc.SourceURL).Scan(&prevHash, &hasEmbedding)
		if err != nil && err != sql.ErrNoRows {
			return err
		}
		if prevHash != doc.ContentHash || !hasEmbedding {
			v, err := s.embedder.Embed(ctx, embeddingText(doc))
			if err != nil {
				return fmt.Errorf("embedding %s: %w", doc.SourceURL, err)
			}
			embedding = encodeVector(v)
		}
	}

	now := s.now().UTC().Format(time.RFC3339)
	var id, createdAt, updatedAt string
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO recipes (id, source_url, title, cuisine, prep_time, cook_time, servings, tags, content, content_hash, embedding, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(source_url) DO UPDATE SET
			title = excluded.title,
			cuisine = excluded.cuisine,
			prep_time = excluded.prep_time,
			cook_time = excluded.cook_time,
			servings = excluded.servings,
			tags = excluded.tags,
			content = excluded.content,
			content_hash = excluded.content_hash,
			embedding = CASE
				WHEN excluded.embedding IS NOT NULL THEN excluded.embedding
				WHEN recipes.content_hash = excluded.content_hash THEN recipes.embedding
				ELSE NULL
			END,
			updated_at = excluded.updated_at
		RETURNING id, created_at, updated_at
	`, uuid.New().String(), doc.SourceURL, doc.Title, doc.Cuisine, doc.PrepTime, doc.CookTime,
		doc.Servings, string(tags), doc.Content, doc.ContentHash, embedding, now, now,
	).Scan(&id, &createdAt, &updatedAt)
	if err != nil {
		return err
	}

	doc.ID = id
	if doc.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return err
	}
	if doc.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return err
	}
	return nil
}

// FindRecipeByURL retrieves a document by its source URL.
func (s *RecipeStore) FindRecipeByURL(ctx context.Context, sourceURL string) (*rezept.RecipeDocument, error) {
	rows, err := s.db.QueryContext(ctx, selectRecipes+` WHERE source_url = ?`, sourceURL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, rezept.Errorf(rezept.ENOTFOUND, "recipe not found")
	}
	rec, err := scanRecipe(rows)
	if err != nil {
		return nil, err
	}
	return rec.doc, nil
}

// SearchRecipes ranks stored documents against query. An empty query
// lists the most recently updated documents with a score of 1. Documents
// stored without an embedding fall back to keyword scoring.
func (s *RecipeStore) SearchRecipes(ctx context.Context, query string, opts rezept.SearchOptions) ([]*rezept.SearchResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	query = strings.TrimSpace(query)

	var queryVec []float32
	if query != "" && s.embedder != nil {
		v, err := s.embedder.Embed(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("embedding query: %w", err)
		}
		queryVec = v
	}

	var q strings.Builder
	var args []any
	q.WriteString(selectRecipes + ` WHERE 1=1`)
	if c := strings.ToLower(strings.TrimSpace(opts.Cuisine)); c != "" {
		q.WriteString(` AND cuisine = ?`)
		args = append(args, c)
	}
	q.WriteString(` ORDER BY updated_at DESC, source_url ASC`)

	rows, err := s.db.QueryContext(ctx, q.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	terms := strings.Fields(strings.ToLower(query))
	var results []*rezept.SearchResult
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}

		var score float64
		switch {
		case len(terms) == 0:
			score = 1
		case queryVec != nil && len(rec.embedding) > 0:
			score = cosine(queryVec, rec.embedding)
		default:
			score = keywordScore(rec.doc, terms)
		}
		if score <= 0 || score < opts.MinScore {
			continue
		}
		results = append(results, &rezept.SearchResult{Document: rec.doc, Score: score})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Stable sort keeps recency order among equal scores.
	slices.SortStableFunc(results, func(a, b *rezept.SearchResult) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// CountRecipes returns the number of stored documents.
func (s *RecipeStore) CountRecipes(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM recipes`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// DeleteRecipe removes the document with the given source URL.
func (s *RecipeStore) DeleteRecipe(ctx context.Context, sourceURL string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM recipes WHERE source_url = ?`, sourceURL)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return rezept.Errorf(rezept.ENOTFOUND, "recipe not found")
	}
	return nil
}

const selectRecipes = `SELECT id, source_url, title, cuisine, prep_time, cook_time, servings, tags, content, content_hash, embedding, created_at, updated_at FROM recipes`

type storedRecipe struct {
	doc       *rezept.RecipeDocument
	embedding []float32
}

func scanRecipe(rows *sql.Rows) (*storedRecipe, error) {
	var doc rezept.RecipeDocument
	var tags, createdAt, updatedAt string
	var embedding []byte

	if err := rows.Scan(&doc.ID, &doc.SourceURL, &doc.Title, &doc.Cuisine, &doc.PrepTime,
		&doc.CookTime, &doc.Servings, &tags, &doc.Content, &doc.ContentHash, &embedding,
		&createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tags), &doc.Tags); err != nil {
		return nil, fmt.Errorf("failed to parse tags: %w", err)
	}

	var err error
	if doc.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if doc.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &storedRecipe{doc: &doc, embedding: decodeVector(embedding)}, nil
}

// keywordScore is the fraction of terms found in the document. Title and
// tag matches count double.
func keywordScore(doc *rezept.RecipeDocument, terms []string) float64 {
	title := strings.ToLower(doc.Title)
	tags := strings.ToLower(strings.Join(doc.Tags, " "))
	content := strings.ToLower(doc.Content)

	var score float64
	for _, t := range terms {
		switch {
		case strings.Contains(title, t) || strings.Contains(tags, t):
			score += 2
		case strings.Contains(content, t):
			score++
		}
	}
	return score / float64(2*len(terms))
}

// embeddingText is the text embedded for a document.
func embeddingText(doc *rezept.RecipeDocument) string {
	if len(doc.Tags) == 0 {
		return doc.Content
	}
	return doc.Content + "\n\nTags: " + strings.Join(doc.Tags, ", ")
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
