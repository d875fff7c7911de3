// Package fs stores rendered recipes as markdown files with YAML frontmatter.
package fs

import (
	"bytes"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/fwojciec/rezept"
	"gopkg.in/yaml.v3"
)

// RecipePath converts a recipe URL to a relative file path of the form
// domain/slug.md, where the slug is the URL path with slashes replaced.
// Example: https://www.chefkoch.de/rezepte/123/gulasch.html → www.chefkoch.de/rezepte-123-gulasch.md
func RecipePath(rawURL string) (string, error) {
	domain, err := rezept.ExtractDomain(rawURL)
	if err != nil {
		return "", err
	}
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", err
	}

	p := strings.Trim(u.Path, "/")
	p = strings.TrimSuffix(p, path.Ext(p))
	if p == "" {
		return filepath.Join(domain, "index.md"), nil
	}
	return filepath.Join(domain, strings.ReplaceAll(p, "/", "-")+".md"), nil
}

// frontMatter is the YAML header of a recipe file.
type frontMatter struct {
	SourceURL       string `yaml:"source_url"`
	rezept.Metadata `yaml:",inline"`
}

// FormatRecipe formats a successful result as markdown with YAML frontmatter.
func FormatRecipe(res *rezept.Result) (string, error) {
	fm := frontMatter{SourceURL: res.URL}
	if res.Meta != nil {
		fm.Metadata = *res.Meta
	}

	var b bytes.Buffer
	b.WriteString("---\n")
	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	b.WriteString("---\n\n")
	b.WriteString(res.Content)
	return b.String(), nil
}

// Ensure Writer implements rezept.RecipeWriter at compile time.
var _ rezept.RecipeWriter = (*Writer)(nil)

// Writer writes results as markdown files below a base directory.
type Writer struct {
	baseDir string
}

// NewWriter creates a new Writer that writes to the given base directory.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

// WriteResult writes a successful result to disk and returns the file path.
// Files are written to a temporary name and renamed into place, so readers
// never observe a partial file.
func (w *Writer) WriteResult(res *rezept.Result) (string, error) {
	if res == nil || !res.Success {
		return "", rezept.Errorf(rezept.EINVALID, "cannot write failed result")
	}

	relPath, err := RecipePath(res.URL)
	if err != nil {
		return "", err
	}
	content, err := FormatRecipe(res)
	if err != nil {
		return "", err
	}

	fullPath := filepath.Join(w.baseDir, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(filepath.Dir(fullPath), ".rezept-*.tmp")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		return "", err
	}
	return fullPath, nil
}
