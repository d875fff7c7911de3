package rezept

import "strings"

// Recipe is the intermediate record built up while extracting a single page.
// Scalar fields use the empty string for "unset". Ingredient and
// instruction lists never contain blank entries.
type Recipe struct {
	SourceURL    string
	Title        string
	Description  string
	PrepTime     string
	CookTime     string
	Servings     string
	Cuisine      string
	Ingredients  []string
	Instructions []string
}

// NewRecipe returns an empty record for the given source URL.
func NewRecipe(sourceURL string) *Recipe {
	return &Recipe{SourceURL: sourceURL}
}

// AddIngredient appends a trimmed ingredient. Blank input is dropped.
func (r *Recipe) AddIngredient(s string) {
	if s = CleanText(s); s != "" {
		r.Ingredients = append(r.Ingredients, s)
	}
}

// AddInstruction appends a trimmed instruction step. Blank input is dropped.
func (r *Recipe) AddInstruction(s string) {
	if s = CleanText(s); s != "" {
		r.Instructions = append(r.Instructions, s)
	}
}

// SetIngredients replaces the ingredient list, dropping blank entries.
func (r *Recipe) SetIngredients(items []string) {
	r.Ingredients = nil
	for _, s := range items {
		r.AddIngredient(s)
	}
}

// SetInstructions replaces the instruction list, dropping blank entries.
func (r *Recipe) SetInstructions(items []string) {
	r.Instructions = nil
	for _, s := range items {
		r.AddInstruction(s)
	}
}

// Merge copies fields from src into r where r has them unset.
// Fields already set on r are never overwritten. SourceURL is not touched.
func (r *Recipe) Merge(src *Recipe) {
	if src == nil {
		return
	}
	fill(&r.Title, src.Title)
	fill(&r.Description, src.Description)
	fill(&r.PrepTime, src.PrepTime)
	fill(&r.CookTime, src.CookTime)
	fill(&r.Servings, src.Servings)
	fill(&r.Cuisine, src.Cuisine)
	if len(r.Ingredients) == 0 {
		r.SetIngredients(src.Ingredients)
	}
	if len(r.Instructions) == 0 {
		r.SetInstructions(src.Instructions)
	}
}

// IsComplete reports whether every field an extractor can fill is set.
// Extraction stages use it to skip work.
func (r *Recipe) IsComplete() bool {
	return r.Title != "" && r.Description != "" &&
		r.PrepTime != "" && r.CookTime != "" && r.Servings != "" &&
		len(r.Ingredients) > 0 && len(r.Instructions) > 0
}

// HasContent reports whether the record carries any recipe body.
// A page with neither ingredients nor instructions is not a recipe.
func (r *Recipe) HasContent() bool {
	return len(r.Ingredients) > 0 || len(r.Instructions) > 0
}

// Normalize rewrites time and serving values to German conventions.
func (r *Recipe) Normalize() {
	r.PrepTime = NormalizeTime(r.PrepTime)
	r.CookTime = NormalizeTime(r.CookTime)
	r.Servings = NormalizeServings(r.Servings)
}

// CleanText trims s and collapses internal whitespace runs, including line
// breaks, to single spaces.
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func fill(dst *string, v string) {
	if *dst == "" {
		*dst = CleanText(v)
	}
}
