package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/rezept"
)

var _ rezept.Extractor = (*HeuristicExtractor)(nil)

// HeuristicExtractor fills recipes from page markup using ordered CSS
// selector tables. It is meant to run after StructuredExtractor and only
// fills fields that are still unset.
type HeuristicExtractor struct{}

// NewHeuristicExtractor creates a new HeuristicExtractor.
func NewHeuristicExtractor() *HeuristicExtractor {
	return &HeuristicExtractor{}
}

// Extract fills unset fields of recipe. Each field is looked up in the
// recipe container first and then in the whole document. The first
// selector yielding a non-empty value wins.
func (e *HeuristicExtractor) Extract(html string, recipe *rezept.Recipe) error {
	if recipe.IsComplete() {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return rezept.Errorf(rezept.EINVALID, "failed to parse HTML: %v", err)
	}
	for _, sel := range noiseSelectors {
		doc.Find(sel).Remove()
	}

	scopes := []*goquery.Selection{doc.Selection}
	if c := findContainer(doc); c != nil {
		scopes = []*goquery.Selection{c, doc.Selection}
	}

	found := &rezept.Recipe{
		Title:       findText(scopes, titleSelectors),
		Description: findText(scopes, descriptionSelectors),
		PrepTime:    findText(scopes, prepTimeSelectors),
		CookTime:    findText(scopes, cookTimeSelectors),
		Servings:    findText(scopes, servingsSelectors),
	}
	if len(recipe.Ingredients) == 0 {
		found.SetIngredients(findList(scopes, ingredientSelectors))
	}
	if len(recipe.Instructions) == 0 {
		found.SetInstructions(findList(scopes, instructionSelectors))
	}

	recipe.Merge(found)
	return nil
}

func findContainer(doc *goquery.Document) *goquery.Selection {
	for _, s := range containerSelectors {
		if sel := doc.Find(s).First(); sel.Length() > 0 {
			return sel
		}
	}
	return nil
}

// findText returns the first non-empty value in selector order. Each
// selector is tried on every scope before the next selector runs.
func findText(scopes []*goquery.Selection, selectors []FieldSelector) string {
	for _, fs := range selectors {
		for _, scope := range scopes {
			var value string
			scope.Find(fs.Selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
				value = fieldValue(sel, fs)
				if isSectionLabel(value) {
					value = ""
				}
				return value == ""
			})
			if value != "" {
				return value
			}
		}
	}
	return ""
}

// findList returns the items of the first selector yielding any.
func findList(scopes []*goquery.Selection, selectors []FieldSelector) []string {
	for _, fs := range selectors {
		for _, scope := range scopes {
			var items []string
			scope.Find(fs.Selector).Each(func(_ int, sel *goquery.Selection) {
				items = append(items, listItems(sel, fs)...)
			})
			if len(items) > 0 {
				return items
			}
		}
	}
	return nil
}

// listItems splits a matched element into items: its innermost list items,
// else table rows, else paragraphs, else the element's own value.
func listItems(sel *goquery.Selection, fs FieldSelector) []string {
	for _, child := range []string{"li", "tr", "p"} {
		nodes := sel.Find(child).FilterFunction(func(_ int, s *goquery.Selection) bool {
			return s.Find(child).Length() == 0
		})
		if nodes.Length() == 0 {
			continue
		}
		var items []string
		nodes.Each(func(_ int, s *goquery.Selection) {
			if text := itemText(s); text != "" && !isSectionLabel(text) {
				items = append(items, text)
			}
		})
		if len(items) > 0 {
			return items
		}
	}
	if v := fieldValue(sel, fs); v != "" && !isSectionLabel(v) {
		return []string{v}
	}
	return nil
}

// isSectionLabel reports whether v is a bare section heading such as
// "Zutaten:" rather than recipe content.
func isSectionLabel(v string) bool {
	_, ok := sectionLabels[strings.ToLower(strings.TrimRight(v, ": "))]
	return ok
}

// itemText returns the text of a list item. Table cells are joined with
// spaces so "200 g" and "Mehl" do not run together.
func itemText(sel *goquery.Selection) string {
	if goquery.NodeName(sel) != "tr" {
		return rezept.CleanText(sel.Text())
	}
	var cells []string
	sel.Children().Each(func(_ int, cell *goquery.Selection) {
		if text := rezept.CleanText(cell.Text()); text != "" {
			cells = append(cells, text)
		}
	})
	return strings.Join(cells, " ")
}

// fieldValue reads the configured attribute, or the element text with
// microdata attribute fallbacks for <meta> and <time> elements.
func fieldValue(sel *goquery.Selection, fs FieldSelector) string {
	if fs.Attr != "" {
		v, _ := sel.Attr(fs.Attr)
		return rezept.CleanText(v)
	}
	if text := rezept.CleanText(sel.Text()); text != "" {
		return text
	}
	for _, attr := range []string{"content", "datetime", "value"} {
		if v, ok := sel.Attr(attr); ok {
			if v = rezept.CleanText(v); v != "" {
				return v
			}
		}
	}
	return ""
}
