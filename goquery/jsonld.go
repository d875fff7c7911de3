// Package goquery extracts recipes from HTML using schema.org JSON-LD
// blocks and CSS selector heuristics.
package goquery

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/rezept"
)

var _ rezept.Extractor = (*StructuredExtractor)(nil)

// StructuredExtractor fills recipes from schema.org Recipe objects embedded
// as JSON-LD. Blocks that fail to decode are skipped and non-recipe objects
// are ignored.
type StructuredExtractor struct{}

// NewStructuredExtractor creates a new StructuredExtractor.
func NewStructuredExtractor() *StructuredExtractor {
	return &StructuredExtractor{}
}

// Extract fills unset fields of recipe from the first JSON-LD Recipe
// object in document order.
func (e *StructuredExtractor) Extract(html string, recipe *rezept.Recipe) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return rezept.Errorf(rezept.EINVALID, "failed to parse HTML: %v", err)
	}

	var node map[string]any
	doc.Find("script").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		typ, _ := sel.Attr("type")
		if !strings.EqualFold(strings.TrimSpace(typ), "application/ld+json") {
			return true
		}
		block := normalizeJSONBlock(sel.Text())
		if block == "" {
			return true
		}
		var data any
		if err := json.Unmarshal([]byte(block), &data); err != nil {
			return true
		}
		node = findRecipeNode(data)
		return node == nil
	})
	if node == nil {
		return nil
	}

	recipe.Merge(decodeRecipeNode(node))
	return nil
}

// normalizeJSONBlock trims comment wrappers and trailing semicolons some
// CMSs leave around the JSON payload.
func normalizeJSONBlock(content string) string {
	content = strings.TrimSpace(content)
	start := strings.IndexAny(content, "{[")
	if start == -1 {
		return ""
	}
	end := strings.LastIndexAny(content, "}]")
	if end < start {
		return ""
	}
	return content[start : end+1]
}

// findRecipeNode searches decoded JSON-LD depth-first for a Recipe object.
// Nested object members are visited in sorted key order.
func findRecipeNode(data any) map[string]any {
	switch v := data.(type) {
	case map[string]any:
		if isRecipeType(v["@type"]) {
			return v
		}
		if graph, ok := v["@graph"]; ok {
			if node := findRecipeNode(graph); node != nil {
				return node
			}
		}
		keys := make([]string, 0, len(v))
		for k := range v {
			if k != "@graph" {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			if node := findRecipeNode(v[k]); node != nil {
				return node
			}
		}
	case []any:
		for _, item := range v {
			if node := findRecipeNode(item); node != nil {
				return node
			}
		}
	}
	return nil
}

func isRecipeType(v any) bool {
	switch t := v.(type) {
	case string:
		return isRecipeName(t)
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok && isRecipeName(s) {
				return true
			}
		}
	}
	return false
}

// isRecipeName accepts "Recipe" as well as prefixed forms such as
// "schema:Recipe" and "http://schema.org/Recipe".
func isRecipeName(s string) bool {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexAny(s, "/:#"); i >= 0 {
		s = s[i+1:]
	}
	return strings.EqualFold(s, "Recipe")
}

func decodeRecipeNode(m map[string]any) *rezept.Recipe {
	r := &rezept.Recipe{
		Title:       textValue(m["name"]),
		Description: textValue(m["description"]),
		PrepTime:    textValue(m["prepTime"]),
		CookTime:    textValue(m["cookTime"]),
		Servings:    yieldValue(m["recipeYield"]),
		Cuisine:     joinedValue(m["recipeCuisine"]),
	}

	ingredients := m["recipeIngredient"]
	if ingredients == nil {
		ingredients = m["ingredients"]
	}
	r.SetIngredients(ingredientLines(ingredients))
	r.SetInstructions(instructionSteps(m["recipeInstructions"]))
	return r
}

// textValue returns a scalar JSON value as a string. Arrays yield their
// first non-empty element and objects their @value, value, text or name.
func textValue(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case []any:
		for _, item := range val {
			if s := textValue(item); s != "" {
				return s
			}
		}
	case map[string]any:
		for _, k := range []string{"@value", "value", "text", "name"} {
			if s := textValue(val[k]); s != "" {
				return s
			}
		}
	}
	return ""
}

// yieldValue reads recipeYield, keeping a QuantitativeValue's unit.
func yieldValue(v any) string {
	if m, ok := v.(map[string]any); ok {
		value := textValue(m["value"])
		unit := textValue(m["unitText"])
		if value != "" && unit != "" {
			return value + " " + unit
		}
	}
	return textValue(v)
}

func joinedValue(v any) string {
	items, ok := v.([]any)
	if !ok {
		return textValue(v)
	}
	var parts []string
	for _, item := range items {
		if s := textValue(item); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

func ingredientLines(v any) []string {
	switch val := v.(type) {
	case string:
		return strings.Split(val, "\n")
	case []any:
		var lines []string
		for _, item := range val {
			lines = append(lines, textValue(item))
		}
		return lines
	}
	return nil
}

// instructionSteps flattens recipeInstructions: plain text, arrays of
// strings, HowToStep objects and HowToSection objects holding more steps.
func instructionSteps(v any) []string {
	switch val := v.(type) {
	case string:
		return strings.Split(val, "\n")
	case []any:
		var steps []string
		for _, item := range val {
			steps = append(steps, instructionSteps(item)...)
		}
		return steps
	case map[string]any:
		if nested, ok := val["itemListElement"]; ok {
			return instructionSteps(nested)
		}
		if s := textValue(val["text"]); s != "" {
			return []string{s}
		}
		if s := textValue(val["name"]); s != "" {
			return []string{s}
		}
	}
	return nil
}
