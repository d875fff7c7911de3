package htmltomarkdown

import (
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/fwojciec/rezept"
)

var (
	// markupRE matches an HTML tag or character reference. A bare "<" or
	// "&" in prose does not match.
	markupRE = regexp.MustCompile(`<[a-zA-Z/!]|&(?:#[0-9]+|#[xX][0-9a-fA-F]+|[a-zA-Z][a-zA-Z0-9]*);`)

	// The converter always writes "<" and ">" in text as entities.
	entityDecoder = strings.NewReplacer("&lt;", "<", "&gt;", ">")
)

// Ensure Cleaner implements rezept.Cleaner at compile time.
var _ rezept.Cleaner = (*Cleaner)(nil)

// Cleaner converts markup and HTML entities left in extracted recipe text
// to plain markdown text. Structured data frequently embeds <p>, <br> and
// &amp; in descriptions and steps.
type Cleaner struct {
	conv *converter.Converter
}

// NewCleaner creates a new Cleaner.
func NewCleaner() *Cleaner {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
		converter.WithEscapeMode(converter.EscapeModeDisabled),
	)
	return &Cleaner{conv: conv}
}

// Clean rewrites every text field of recipe in place. List items that are
// blank after cleaning are dropped.
func (c *Cleaner) Clean(recipe *rezept.Recipe) error {
	for _, field := range []*string{
		&recipe.Title,
		&recipe.Description,
		&recipe.PrepTime,
		&recipe.CookTime,
		&recipe.Servings,
		&recipe.Cuisine,
	} {
		v, err := c.CleanText(*field)
		if err != nil {
			return err
		}
		*field = v
	}

	ingredients, err := c.cleanList(recipe.Ingredients)
	if err != nil {
		return err
	}
	recipe.SetIngredients(ingredients)

	instructions, err := c.cleanList(recipe.Instructions)
	if err != nil {
		return err
	}
	recipe.SetInstructions(instructions)
	return nil
}

// CleanText converts a single value. Values without tags or character
// references are only whitespace-normalized. Markdown characters in the
// text are never escaped.
func (c *Cleaner) CleanText(s string) (string, error) {
	if !markupRE.MatchString(s) {
		return rezept.CleanText(s), nil
	}
	md, err := c.conv.ConvertString(s)
	if err != nil {
		return "", err
	}
	return rezept.CleanText(entityDecoder.Replace(md)), nil
}

func (c *Cleaner) cleanList(items []string) ([]string, error) {
	out := make([]string, 0, len(items))
	for _, item := range items {
		v, err := c.CleanText(item)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
