package linkcheck

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Ref is one reference extracted from an emitted HTML document.
type Ref struct {
	Target    string // raw attribute value
	Tag       string // a, img, link, script
	Attribute string // href or src
}

// ExtractRefs parses an HTML document and collects every a[href], img[src],
// link[href] and script[src] value.
func ExtractRefs(r io.Reader) ([]Ref, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var refs []Ref
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "a", "link":
				if v := attr(n, "href"); v != "" {
					refs = append(refs, Ref{Target: v, Tag: n.Data, Attribute: "href"})
				}
			case "img", "script":
				if v := attr(n, "src"); v != "" {
					refs = append(refs, Ref{Target: v, Tag: n.Data, Attribute: "src"})
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return refs, nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// IsInternal reports whether a reference targets the generated site itself.
// External schemes, protocol-relative URLs and pure fragments are not ours to
// verify.
func IsInternal(target string) bool {
	if target == "" || strings.HasPrefix(target, "#") {
		return false
	}
	if strings.HasPrefix(target, "mailto:") ||
		strings.HasPrefix(target, "tel:") ||
		strings.HasPrefix(target, "javascript:") ||
		strings.HasPrefix(target, "data:") {
		return false
	}
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == ""
}
