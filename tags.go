package rezept

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// tagRule adds Tag when any keyword occurs in the searched text.
type tagRule struct {
	Tag      string
	Keywords []string
}

var ingredientTagRules = []tagRule{
	{"hähnchen", []string{"hähnchen", "huhn", "poulet"}},
	{"schweinefleisch", []string{"schwein", "speck"}},
	{"rindfleisch", []string{"rind", "beef"}},
	{"fisch", []string{"fisch", "lachs", "crevetten"}},
	{"italienisch", []string{"pasta", "spaghetti", "parmesan"}},
	{"griechisch", []string{"feta", "oliven"}},
	{"salat", []string{"salat"}},
	{"suppe", []string{"suppe", "eintopf"}},
}

var titleTagRules = []tagRule{
	{"salat", []string{"salat"}},
	{"dessert", []string{"kuchen", "tarte"}},
}

// Any of these tags rules out "vegetarisch".
var proteinTags = []string{"fisch", "hähnchen", "rindfleisch", "schweinefleisch"}

// Cuisines recognized from tags, in order of precedence.
var cuisineTags = []string{"italienisch", "griechisch"}

// GenerateTags returns sorted, de-duplicated search tags for a recipe.
// Every recipe is tagged "deutsch" and "rezept".
func GenerateTags(r *Recipe) []string {
	lower := cases.Lower(language.German)
	ingredients := lower.String(strings.Join(r.Ingredients, " "))
	title := lower.String(r.Title)

	set := map[string]struct{}{"deutsch": {}, "rezept": {}}
	for _, rule := range ingredientTagRules {
		if containsAny(ingredients, rule.Keywords) {
			set[rule.Tag] = struct{}{}
		}
	}
	for _, rule := range titleTagRules {
		if containsAny(title, rule.Keywords) {
			set[rule.Tag] = struct{}{}
		}
	}
	if len(r.Ingredients) > 0 && !strings.Contains(ingredients, "fleisch") && !hasAny(set, proteinTags) {
		set["vegetarisch"] = struct{}{}
	}
	if isQuick(r.PrepTime) {
		set["schnell"] = struct{}{}
	}
	if c := lower.String(CleanText(r.Cuisine)); c != "" {
		set[c] = struct{}{}
	}

	tags := make([]string, 0, len(set))
	for tag := range set {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// DeriveCuisine returns the declared cuisine in lowercase, else a cuisine
// inferred from ingredient tags, else "deutsch".
func DeriveCuisine(r *Recipe) string {
	if c := CleanText(r.Cuisine); c != "" {
		return cases.Lower(language.German).String(c)
	}
	tags := GenerateTags(r)
	for _, c := range cuisineTags {
		i := sort.SearchStrings(tags, c)
		if i < len(tags) && tags[i] == c {
			return c
		}
	}
	return "deutsch"
}

// isQuick reports whether a normalized prep time is at most 20 minutes.
func isQuick(prep string) bool {
	s := NormalizeTime(prep)
	if s == "" || strings.Contains(s, "Std") {
		return false
	}
	var minutes int
	if _, err := fmt.Sscanf(s, "%d Min", &minutes); err != nil {
		return false
	}
	return minutes <= 20
}

func hasAny(set map[string]struct{}, tags []string) bool {
	for _, t := range tags {
		if _, ok := set[t]; ok {
			return true
		}
	}
	return false
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
