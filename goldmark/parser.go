// Package goldmark recovers recipes from rendered markdown documents.
package goldmark

import (
	"regexp"
	"strings"

	"github.com/fwojciec/rezept"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Ensure Parser implements rezept.MarkdownParser at compile time.
var _ rezept.MarkdownParser = (*Parser)(nil)

// Parser reads documents produced by rezept.FormatMarkdown back into
// recipe records. Unknown sections are ignored.
type Parser struct {
	md goldmark.Markdown
}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{md: goldmark.New()}
}

var labelRE = regexp.MustCompile(`^\*\*([^*]+):\*\*\s*(.*)$`)

// section names as rendered.
const (
	sectionDescription  = "Beschreibung"
	sectionDetails      = "Rezept-Details"
	sectionIngredients  = "Zutaten"
	sectionInstructions = "Zubereitung"
)

// ParseMarkdown parses content into a recipe. The first level-two heading
// is the title. It fails when no title is found.
func (p *Parser) ParseMarkdown(content string) (*rezept.Recipe, error) {
	src := []byte(content)
	doc := p.md.Parser().Parse(text.NewReader(src))

	r := &rezept.Recipe{}
	var section string
	var titled bool
	var description []string

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			if node.Level != 2 {
				continue
			}
			heading := rezept.CleanText(strings.Join(lines(node, src), " "))
			if !titled {
				r.Title = heading
				titled = true
				section = ""
				continue
			}
			section = heading

		case *ast.Paragraph:
			switch section {
			case "":
				for _, line := range lines(node, src) {
					if label, value, ok := labeled(line); ok && label == "Quelle" {
						r.SourceURL = value
					}
				}
			case sectionDescription:
				description = append(description, lines(node, src)...)
			case sectionDetails:
				for _, line := range lines(node, src) {
					label, value, ok := labeled(line)
					if !ok {
						continue
					}
					switch label {
					case "Vorbereitungszeit":
						r.PrepTime = value
					case "Kochzeit":
						r.CookTime = value
					case "Portionen":
						r.Servings = value
					}
				}
			}

		case *ast.List:
			items := listItems(node, src)
			switch section {
			case sectionIngredients:
				r.SetIngredients(items)
			case sectionInstructions:
				r.SetInstructions(items)
			}
		}
	}

	if !titled {
		return nil, rezept.Errorf(rezept.EINVALID, "no recipe title found")
	}
	r.Description = rezept.CleanText(strings.Join(description, " "))
	return r, nil
}

// lines returns the raw source lines of a block node.
func lines(n ast.Node, src []byte) []string {
	segs := n.Lines()
	out := make([]string, 0, segs.Len())
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		out = append(out, strings.TrimSpace(string(seg.Value(src))))
	}
	return out
}

// listItems returns the text of each item in a list.
func listItems(list *ast.List, src []byte) []string {
	var items []string
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		var parts []string
		for block := item.FirstChild(); block != nil; block = block.NextSibling() {
			parts = append(parts, lines(block, src)...)
		}
		items = append(items, strings.Join(parts, " "))
	}
	return items
}

func labeled(line string) (label, value string, ok bool) {
	m := labelRE.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	return m[1], rezept.CleanText(m[2]), true
}
