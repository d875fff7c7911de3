package goquery

// FieldSelector locates one recipe field in a page.
type FieldSelector struct {
	Selector string

	// Attr names an attribute holding the value. When empty the element
	// text is used, falling back to content and datetime attributes.
	Attr string
}

// Selector tables are ordered: schema.org microdata first, then class names
// used by German recipe sites, then common English recipe plugins, then
// generic markup.

var containerSelectors = []string{
	`[itemtype*="schema.org/Recipe"]`,
	`.rezept`,
	`.rezept-container`,
	`#rezept`,
	`.wprm-recipe-container`,
	`.tasty-recipes`,
	`.recipe`,
	`.recipe-card`,
	`#recipe`,
	`article`,
	`main`,
}

var titleSelectors = []FieldSelector{
	{Selector: `[itemprop="name"]`},
	{Selector: `.rezept-titel`},
	{Selector: `.rezept-title`},
	{Selector: `.wprm-recipe-name`},
	{Selector: `.recipe-title`},
	{Selector: `h1`},
	{Selector: `.titel`},
	{Selector: `.title`},
	{Selector: `h2`},
}

var descriptionSelectors = []FieldSelector{
	{Selector: `[itemprop="description"]`},
	{Selector: `.rezept-beschreibung`},
	{Selector: `.beschreibung`},
	{Selector: `.einleitung`},
	{Selector: `.wprm-recipe-summary`},
	{Selector: `.recipe-description`},
	{Selector: `.recipe-summary`},
	{Selector: `.intro`},
}

var prepTimeSelectors = []FieldSelector{
	{Selector: `[itemprop="prepTime"]`},
	{Selector: `[data-prep-time]`, Attr: "data-prep-time"},
	{Selector: `.vorbereitungszeit`},
	{Selector: `.zubereitungszeit`},
	{Selector: `.arbeitszeit`},
	{Selector: `.wprm-recipe-prep_time`},
	{Selector: `.prep-time`},
	{Selector: `.recipe-prep-time`},
}

var cookTimeSelectors = []FieldSelector{
	{Selector: `[itemprop="cookTime"]`},
	{Selector: `[data-cook-time]`, Attr: "data-cook-time"},
	{Selector: `.kochzeit`},
	{Selector: `.backzeit`},
	{Selector: `.garzeit`},
	{Selector: `.wprm-recipe-cook_time`},
	{Selector: `.cook-time`},
	{Selector: `.recipe-cook-time`},
}

var servingsSelectors = []FieldSelector{
	{Selector: `[itemprop="recipeYield"]`},
	{Selector: `[data-servings]`, Attr: "data-servings"},
	{Selector: `.portionen`},
	{Selector: `.personen`},
	{Selector: `.wprm-recipe-servings`},
	{Selector: `.servings`},
	{Selector: `.recipe-yield`},
	{Selector: `.yield`},
}

var ingredientSelectors = []FieldSelector{
	{Selector: `[itemprop="recipeIngredient"]`},
	{Selector: `[itemprop="ingredients"]`},
	{Selector: `.zutatenliste`},
	{Selector: `.zutaten`},
	{Selector: `.zutat`},
	{Selector: `.wprm-recipe-ingredient`},
	{Selector: `.recipe-ingredients`},
	{Selector: `.ingredients-list`},
	{Selector: `.ingredients`},
	{Selector: `.ingredient`},
}

var instructionSelectors = []FieldSelector{
	{Selector: `[itemprop="recipeInstructions"]`},
	{Selector: `.zubereitungsschritte`},
	{Selector: `.zubereitung`},
	{Selector: `.anleitung`},
	{Selector: `.schritt`},
	{Selector: `.wprm-recipe-instruction-text`},
	{Selector: `.recipe-instructions`},
	{Selector: `.instructions`},
	{Selector: `.instruction`},
	{Selector: `.method`},
	{Selector: `.steps`},
	{Selector: `.step`},
}

// noiseSelectors are removed before any field lookup.
var noiseSelectors = []string{
	"script", "style", "noscript", "template",
	"nav", "footer", "iframe", "svg", "button",
	".advertisement", ".ads", ".comments",
}

// sectionLabels are headings that never count as a field value.
var sectionLabels = map[string]struct{}{
	"zutaten":              {},
	"zutatenliste":         {},
	"zubereitung":          {},
	"zubereitungsschritte": {},
	"anleitung":            {},
	"beschreibung":         {},
	"rezept":               {},
	"ingredients":          {},
	"instructions":         {},
	"directions":           {},
	"method":               {},
}
