package page

import (
	"fmt"
	"io"
	"math"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/yildizm/glyphloader/internal/sampler"
)

// Layout estimates element boxes for HTML that has no renderer. Block
// elements stack in document order and text wraps at Width.
type Layout struct {
	Width      float64
	LineHeight float64
	CharWidth  float64
	MaxNodes   int
}

// DefaultLayout approximates a 16px sans-serif page at the given width
func DefaultLayout(width float64) Layout {
	return Layout{
		Width:      width,
		LineHeight: 24,
		CharWidth:  8,
		MaxNodes:   5000,
	}
}

// textless subtrees contribute no text to their ancestors
var textless = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Iframe:   true,
	atom.Svg:      true,
	atom.Head:     true,
	atom.Template: true,
}

var inline = map[atom.Atom]bool{
	atom.A: true, atom.Abbr: true, atom.B: true, atom.Code: true, atom.Em: true,
	atom.I: true, atom.Kbd: true, atom.Label: true, atom.Mark: true, atom.Q: true,
	atom.S: true, atom.Small: true, atom.Span: true, atom.Strong: true, atom.Sub: true,
	atom.Sup: true, atom.Time: true, atom.U: true,
}

// ParseHTML parses r and lays out every element under body in document order
func ParseHTML(r io.Reader, layout Layout) ([]sampler.Element, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	if layout.Width <= 0 || layout.LineHeight <= 0 || layout.CharWidth <= 0 {
		return nil, fmt.Errorf("invalid layout: width, line height and char width must be positive")
	}

	body := findBody(root)
	if body == nil {
		return []sampler.Element{}, nil
	}

	b := &layoutBuilder{layout: layout, elements: make([]sampler.Element, 0, 64)}
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		b.walk(c)
	}
	b.flushLine()
	return b.elements, nil
}

type layoutBuilder struct {
	layout   Layout
	elements []sampler.Element
	cursor   float64
	// pending inline text not yet committed to a line box
	lineChars int
	full      bool
}

func (b *layoutBuilder) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		if text := collapse(n.Data); text != "" {
			b.lineChars += utf8.RuneCountInString(text) + 1
		}
		return
	case html.ElementNode:
	default:
		return
	}

	if b.full || hidden(n) {
		return
	}
	if b.layout.MaxNodes > 0 && len(b.elements) >= b.layout.MaxNodes {
		b.full = true
		return
	}

	block := !inline[n.DataAtom]
	if block {
		b.flushLine()
	}

	idx := len(b.elements)
	b.elements = append(b.elements, sampler.Element{
		Tag:  strings.ToLower(n.Data),
		Top:  b.cursor,
		Text: textContent(n),
	})

	if !textless[n.DataAtom] {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			b.walk(c)
		}
	}

	if block {
		b.flushLine()
	}

	el := &b.elements[idx]
	bottom := b.cursor
	if !block && b.lineChars > 0 && bottom == el.Top {
		// inline content still on the open line
		bottom = el.Top + b.layout.LineHeight
	}
	el.Bottom = bottom
	el.Height = bottom - el.Top
	if el.Height > 0 {
		el.Width = b.layout.Width
	}
}

// flushLine commits pending inline text as wrapped lines
func (b *layoutBuilder) flushLine() {
	if b.lineChars == 0 {
		return
	}
	perLine := math.Max(1, math.Floor(b.layout.Width/b.layout.CharWidth))
	lines := math.Ceil(float64(b.lineChars) / perLine)
	b.cursor += lines * b.layout.LineHeight
	b.lineChars = 0
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findBody(c); found != nil {
			return found
		}
	}
	return nil
}

func hidden(n *html.Node) bool {
	for _, attr := range n.Attr {
		switch strings.ToLower(attr.Key) {
		case "hidden":
			return true
		case "style":
			style := strings.ReplaceAll(strings.ToLower(attr.Val), " ", "")
			if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
				return true
			}
		}
	}
	return false
}

// textContent is the whitespace-collapsed text of n's rendered descendants
func textContent(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
			return
		case html.ElementNode:
			if textless[n.DataAtom] || hidden(n) {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return collapse(sb.String())
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
