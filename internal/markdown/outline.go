package markdown

import "github.com/yuin/goldmark/ast"

// Heading is one entry of a document outline.
type Heading struct {
	Level int
	Text  string
	Slug  string
}

// Outline returns the document's headings in source order. Slugs match the
// anchors the renderer emits for WithAutoHeadingID.
func (e *Engine) Outline(src []byte) []Heading {
	doc := e.parse(src)
	var headings []Heading
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*ast.Heading)
		if !ok {
			continue
		}
		txt := extractText(h, src)
		headings = append(headings, Heading{
			Level: h.Level,
			Text:  txt,
			Slug:  Slugify(txt),
		})
	}
	return headings
}
