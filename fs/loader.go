package fs

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/fwojciec/rezept"
)

// Ensure Loader implements rezept.RecipeLoader at compile time.
var _ rezept.RecipeLoader = (*Loader)(nil)

// Loader reads recipe markdown files from a directory tree.
//
// Metadata comes from the YAML frontmatter. When a parser is set, fields
// missing from the frontmatter are recovered from the markdown body, which
// lets plain rendered files without frontmatter be loaded too.
type Loader struct {
	baseDir string
	parser  rezept.MarkdownParser
}

// NewLoader creates a new Loader. The parser may be nil.
func NewLoader(baseDir string, parser rezept.MarkdownParser) *Loader {
	return &Loader{baseDir: baseDir, parser: parser}
}

// LoadRecipes returns a document per .md file in lexical path order.
// Hidden files and directories are skipped.
func (l *Loader) LoadRecipes(ctx context.Context) ([]*rezept.RecipeDocument, error) {
	var docs []*rezept.RecipeDocument
	err := filepath.WalkDir(l.baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if strings.HasPrefix(d.Name(), ".") && path != l.baseDir {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || filepath.Ext(path) != ".md" {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		doc, err := l.ParseRecipeFile(data)
		if err != nil {
			return rezept.Errorf(rezept.ErrorCode(err), "%s: %s", path, rezept.ErrorMessage(err))
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// ParseRecipeFile builds a document from the contents of one recipe file.
func (l *Loader) ParseRecipeFile(data []byte) (*rezept.RecipeDocument, error) {
	var fm frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(data), &fm)
	if err != nil {
		return nil, rezept.Errorf(rezept.EINVALID, "parse frontmatter: %v", err)
	}

	doc := &rezept.RecipeDocument{
		SourceURL: fm.SourceURL,
		Title:     fm.Title,
		Cuisine:   fm.Cuisine,
		PrepTime:  fm.PrepTime,
		CookTime:  fm.CookTime,
		Servings:  fm.Servings,
		Tags:      fm.Tags,
		Content:   strings.TrimLeft(string(body), "\n"),
	}

	if l.parser != nil && (doc.SourceURL == "" || doc.Title == "") {
		recipe, err := l.parser.ParseMarkdown(doc.Content)
		if err == nil {
			fillFromRecipe(doc, recipe)
		}
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// fillFromRecipe sets unset document fields from a recovered recipe.
func fillFromRecipe(doc *rezept.RecipeDocument, r *rezept.Recipe) {
	if doc.SourceURL == "" {
		doc.SourceURL = r.SourceURL
	}
	meta := rezept.NewMetadata(r)
	if doc.Title == "" {
		doc.Title = meta.Title
	}
	if doc.Cuisine == "" {
		doc.Cuisine = meta.Cuisine
	}
	if doc.PrepTime == "" {
		doc.PrepTime = meta.PrepTime
	}
	if doc.CookTime == "" {
		doc.CookTime = meta.CookTime
	}
	if doc.Servings == "" {
		doc.Servings = meta.Servings
	}
	if len(doc.Tags) == 0 {
		doc.Tags = meta.Tags
	}
}
