package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// Engine wraps a configured goldmark instance. One Engine is shared per
// build; it is stateless and safe for concurrent use.
type Engine struct {
	md goldmark.Markdown
}

// NewEngine constructs the site's Markdown engine: GFM tables/strikethrough/
// autolinks, auto heading IDs matching Slugify, raw HTML passthrough.
func NewEngine() *Engine {
	return &Engine{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
}

// Render converts Markdown to an HTML body fragment.
func (e *Engine) Render(src []byte) (string, error) {
	var buf bytes.Buffer
	if err := e.md.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

// Title returns the text of the first level-1 heading, or "" when absent.
func (e *Engine) Title(src []byte) string {
	doc := e.parse(src)
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok && h.Level == 1 {
			return extractText(h, src)
		}
	}
	return ""
}

// Tagline returns the first non-empty paragraph after the first level-1
// heading. When the document has no H1, the first paragraph at all is used.
func (e *Engine) Tagline(src []byte) string {
	doc := e.parse(src)
	seenTitle := false
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			if node.Level == 1 && !seenTitle {
				seenTitle = true
			}
		case *ast.Paragraph:
			if t := extractText(node, src); t != "" {
				if seenTitle || !hasLevel1Heading(doc) {
					return t
				}
			}
		}
	}
	return ""
}

func hasLevel1Heading(doc ast.Node) bool {
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok && h.Level == 1 {
			return true
		}
	}
	return false
}

func (e *Engine) parse(src []byte) ast.Node {
	return e.md.Parser().Parse(text.NewReader(src))
}

// extractText gets the text content of a goldmark AST node.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		} else {
			buf.WriteString(extractText(c, src))
		}
	}
	return strings.TrimSpace(buf.String())
}
