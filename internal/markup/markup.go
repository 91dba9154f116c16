// Package markup turns short inline Markdown texts into styled layout runs.
//
// Only the inline subset that makes sense in a recipe note is kept:
// emphasis, strong emphasis, links and bare URLs. Block structure is reduced
// to lines: paragraphs and soft line breaks end a line, list items get a
// plain-text marker and headings are drawn bold.
package markup

import (
	"strconv"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/alnah/go-recipe2pdf/internal/layout"
)

// Parser converts Markdown into lines of runs. It is safe for concurrent use.
type Parser struct {
	md goldmark.Markdown
}

// NewParser creates a Parser with bare URL detection enabled.
func NewParser() *Parser {
	return &Parser{
		md: goldmark.New(goldmark.WithExtensions(extension.Linkify)),
	}
}

// Lines parses src and returns one slice of runs per output line.
// Unstyled text keeps base; styled text derives from it.
func (p *Parser) Lines(src string, base layout.Style) [][]layout.Run {
	source := []byte(src)
	doc := p.md.Parser().Parse(text.NewReader(source))

	w := &walker{source: source, styles: []layout.Style{base}}
	_ = ast.Walk(doc, w.visit)
	w.endLine()
	return w.lines
}

type walker struct {
	source []byte
	styles []layout.Style
	cur    []layout.Run
	lines  [][]layout.Run
}

func (w *walker) visit(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node := n.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		if !entering {
			w.endLine()
		}
	case *ast.Heading:
		w.scope(entering, w.top().Bolded())
		if !entering {
			w.endLine()
		}
	case *ast.ListItem:
		if entering {
			w.emit(listMarker(node))
		}
	case *ast.Emphasis:
		if node.Level >= 2 {
			w.scope(entering, w.top().Bolded())
		} else {
			w.scope(entering, w.top().Italicized())
		}
	case *ast.Link:
		w.scope(entering, w.top().Linked(string(node.Destination)))
	case *ast.AutoLink:
		if entering {
			label := string(node.Label(w.source))
			w.cur = append(w.cur, layout.Run{Text: label, Style: w.top().Linked(string(node.URL(w.source)))})
		}
		return ast.WalkSkipChildren, nil
	case *ast.Text:
		if entering {
			w.emit(string(node.Segment.Value(w.source)))
			if node.SoftLineBreak() || node.HardLineBreak() {
				w.endLine()
			}
		}
	case *ast.String:
		if entering {
			w.emit(string(node.Value))
		}
	case *ast.RawHTML:
		if entering {
			for i := 0; i < node.Segments.Len(); i++ {
				seg := node.Segments.At(i)
				w.emit(string(seg.Value(w.source)))
			}
		}
	}
	return ast.WalkContinue, nil
}

// scope pushes s on entering and pops on exit.
func (w *walker) scope(entering bool, s layout.Style) {
	if entering {
		w.styles = append(w.styles, s)
		return
	}
	if len(w.styles) > 1 {
		w.styles = w.styles[:len(w.styles)-1]
	}
}

func (w *walker) top() layout.Style {
	return w.styles[len(w.styles)-1]
}

func (w *walker) emit(s string) {
	if s == "" {
		return
	}
	w.cur = append(w.cur, layout.Run{Text: s, Style: w.top()})
}

func (w *walker) endLine() {
	if len(w.cur) == 0 {
		return
	}
	w.lines = append(w.lines, w.cur)
	w.cur = nil
}

// listMarker returns "- " for bullet items and "n. " for ordered items.
func listMarker(item *ast.ListItem) string {
	list, ok := item.Parent().(*ast.List)
	if !ok || !list.IsOrdered() {
		return "- "
	}
	n := list.Start
	for c := list.FirstChild(); c != nil && c != ast.Node(item); c = c.NextSibling() {
		n++
	}
	return strconv.Itoa(n) + ". "
}
