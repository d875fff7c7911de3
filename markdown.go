package rezept

import (
	"strconv"
	"strings"
)

// FormatMarkdown renders a recipe as the fixed German markdown document.
// Sections whose fields are unset are omitted. The title and source lines
// are always present. Output is deterministic and ends with a newline.
func FormatMarkdown(r *Recipe) string {
	var blocks []string

	blocks = append(blocks, "# Rezept")
	blocks = append(blocks, "## "+DisplayTitle(r))
	blocks = append(blocks, "**Quelle:** "+CleanText(r.SourceURL))

	if d := CleanText(r.Description); d != "" {
		blocks = append(blocks, "## Beschreibung\n"+d)
	}

	var details []string
	if v := CleanText(r.PrepTime); v != "" {
		details = append(details, "**Vorbereitungszeit:** "+v)
	}
	if v := CleanText(r.CookTime); v != "" {
		details = append(details, "**Kochzeit:** "+v)
	}
	if v := CleanText(r.Servings); v != "" {
		details = append(details, "**Portionen:** "+v)
	}
	if len(details) > 0 {
		blocks = append(blocks, "## Rezept-Details\n"+strings.Join(details, "\n"))
	}

	if items := cleanList(r.Ingredients); len(items) > 0 {
		var b strings.Builder
		b.WriteString("## Zutaten")
		for _, item := range items {
			b.WriteString("\n- ")
			b.WriteString(item)
		}
		blocks = append(blocks, b.String())
	}

	if steps := cleanList(r.Instructions); len(steps) > 0 {
		var b strings.Builder
		b.WriteString("## Zubereitung")
		for i, step := range steps {
			b.WriteString("\n")
			b.WriteString(strconv.Itoa(i + 1))
			b.WriteString(". ")
			b.WriteString(step)
		}
		blocks = append(blocks, b.String())
	}

	return strings.Join(blocks, "\n\n") + "\n"
}

// DisplayTitle returns the recipe title, falling back to the source domain
// and then to the source URL itself.
func DisplayTitle(r *Recipe) string {
	if t := CleanText(r.Title); t != "" {
		return t
	}
	if domain, err := ExtractDomain(r.SourceURL); err == nil {
		return domain
	}
	return CleanText(r.SourceURL)
}

func cleanList(items []string) []string {
	var out []string
	for _, s := range items {
		if s = CleanText(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
