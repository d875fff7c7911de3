package trafilatura

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fwojciec/rezept"
	"github.com/markusmobius/go-trafilatura"
)

// Ensure MetadataExtractor implements rezept.Extractor at compile time.
var _ rezept.Extractor = (*MetadataExtractor)(nil)

// MetadataExtractor fills a recipe's title and description from page
// metadata (og tags, <title>, meta description) using go-trafilatura.
// It is the last extractor in the chain and never touches recipe body
// fields.
type MetadataExtractor struct{}

// NewMetadataExtractor creates a new MetadataExtractor.
func NewMetadataExtractor() *MetadataExtractor {
	return &MetadataExtractor{}
}

// Extract fills unset title and description fields.
func (e *MetadataExtractor) Extract(rawHTML string, recipe *rezept.Recipe) error {
	if recipe.Title != "" && recipe.Description != "" {
		return nil
	}
	if strings.TrimSpace(rawHTML) == "" {
		return errors.New("empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return fmt.Errorf("trafilatura: %w", err)
	}

	recipe.Merge(&rezept.Recipe{
		Title:       cleanTitle(result.Metadata.Title, result.Metadata.Sitename),
		Description: result.Metadata.Description,
	})
	return nil
}

// cleanTitle drops a trailing " - Sitename" or " | Sitename" suffix.
func cleanTitle(title, sitename string) string {
	title = strings.TrimSpace(title)
	if sitename == "" {
		return title
	}
	for _, sep := range []string{" | ", " - ", " – "} {
		if t, ok := strings.CutSuffix(title, sep+sitename); ok {
			return strings.TrimSpace(t)
		}
	}
	return title
}
