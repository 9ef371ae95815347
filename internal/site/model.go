package site

import (
	"fmt"
	"path"
	"strings"
)

// PageType classifies a scanned Markdown file. It is determined purely from
// filename/path patterns, never user-declared, and drives template selection.
type PageType string

const (
	PageHome      PageType = "home"
	PageChangelog PageType = "changelog"
	PageIndex     PageType = "index"
	PageRegular   PageType = "regular"
)

// Page is one scanned Markdown file mapped to one output document.
// Pages are created once during a scan pass and immutable thereafter.
type Page struct {
	SourcePath string   // path relative to source root, slash-separated, unique
	Type       PageType
	Title      string
	Tagline    string // only meaningful for the home page
	URL        string
	RawContent []byte // unparsed Markdown body, handed to the renderer as-is
}

// Collection is a source directory grouping one or more Pages and nested
// Collections. Members are held as source-path / dir-path references into the
// Model rather than pointers, so the entity graph stays acyclic.
type Collection struct {
	Path        string   // directory path relative to source root
	IndexPage   string   // source path of <dir>/index.md, "" when absent
	Pages       []string // member page source paths, alphabetical, index excluded
	Collections []string // nested collection paths, alphabetical
}

// NavigationNode is one entry in the site's navigation tree, mirroring the
// Page/Collection hierarchy.
type NavigationNode struct {
	Label    string
	URL      string
	Children []*NavigationNode
}

// Model is the complete, immutable result of one scan+classify+navigate pass:
// the aggregate root owning all Pages, all Collections, and the navigation
// tree. One Model is built per invocation and never mutated afterwards.
type Model struct {
	Pages       []*Page       // deterministic traversal order
	Collections []*Collection // deterministic traversal order, parents before children
	Nav         *NavigationNode

	pagesBySource map[string]*Page
	collByPath    map[string]*Collection
}

// NewModel constructs an empty model ready for registration during a scan.
func NewModel() *Model {
	return &Model{
		pagesBySource: make(map[string]*Page),
		collByPath:    make(map[string]*Collection),
	}
}

// AddPage registers a page, enforcing source-path uniqueness. A duplicate is
// a scanner bug: real filesystems cannot produce one, synthetic inputs can.
func (m *Model) AddPage(p *Page) error {
	if _, exists := m.pagesBySource[p.SourcePath]; exists {
		return fmt.Errorf("%w: duplicate source path %q", ErrInvariantViolation, p.SourcePath)
	}
	m.Pages = append(m.Pages, p)
	m.pagesBySource[p.SourcePath] = p
	return nil
}

// AddCollection registers a collection and validates its member references.
func (m *Model) AddCollection(c *Collection) error {
	if _, exists := m.collByPath[c.Path]; exists {
		return fmt.Errorf("%w: duplicate collection path %q", ErrInvariantViolation, c.Path)
	}
	if c.IndexPage != "" {
		if _, ok := m.pagesBySource[c.IndexPage]; !ok {
			return fmt.Errorf("%w: collection %q references missing index page %q", ErrInvariantViolation, c.Path, c.IndexPage)
		}
	}
	for _, sp := range c.Pages {
		if _, ok := m.pagesBySource[sp]; !ok {
			return fmt.Errorf("%w: collection %q references missing page %q", ErrInvariantViolation, c.Path, sp)
		}
	}
	m.Collections = append(m.Collections, c)
	m.collByPath[c.Path] = c
	return nil
}

// Validate checks cross-entity references that cannot be verified during
// registration (nested collections are added after their parents).
func (m *Model) Validate() error {
	for _, c := range m.Collections {
		for _, cp := range c.Collections {
			if _, ok := m.collByPath[cp]; !ok {
				return fmt.Errorf("%w: collection %q references missing collection %q", ErrInvariantViolation, c.Path, cp)
			}
		}
	}
	return nil
}

// PageBySource returns the page registered under a source path.
func (m *Model) PageBySource(sourcePath string) (*Page, bool) {
	p, ok := m.pagesBySource[sourcePath]
	return p, ok
}

// CollectionByPath returns the collection registered under a directory path.
func (m *Model) CollectionByPath(dir string) (*Collection, bool) {
	c, ok := m.collByPath[dir]
	return c, ok
}

// HomePage returns the home page when the tree has one.
func (m *Model) HomePage() (*Page, bool) {
	for _, p := range m.Pages {
		if p.Type == PageHome {
			return p, true
		}
	}
	return nil, false
}

// HasChangelog reports whether any scanned page is a changelog.
func (m *Model) HasChangelog() bool {
	for _, p := range m.Pages {
		if p.Type == PageChangelog {
			return true
		}
	}
	return false
}

// TopLevelPages returns root-directory pages in stored order.
func (m *Model) TopLevelPages() []*Page {
	var out []*Page
	for _, p := range m.Pages {
		if !strings.Contains(p.SourcePath, "/") {
			out = append(out, p)
		}
	}
	return out
}

// TopLevelCollections returns root-level collections in stored order.
func (m *Model) TopLevelCollections() []*Collection {
	var out []*Collection
	for _, c := range m.Collections {
		if !strings.Contains(c.Path, "/") {
			out = append(out, c)
		}
	}
	return out
}

// DeriveURL maps a source path to the page URL. Markdown extensions become
// .html; index.md collapses its filename segment so collection landing pages
// resolve to the directory URL; the home page resolves to the site root.
func DeriveURL(sourcePath string, pt PageType) string {
	switch pt {
	case PageHome:
		return "/"
	case PageIndex:
		dir := path.Dir(sourcePath)
		if dir == "." {
			return "/"
		}
		return dir + "/"
	default:
		ext := path.Ext(sourcePath)
		return strings.TrimSuffix(sourcePath, ext) + ".html"
	}
}

// OutputPath maps a page URL to the file written under the output directory.
func OutputPath(url string) string {
	switch {
	case url == "/" || url == "":
		return "index.html"
	case strings.HasSuffix(url, "/"):
		return path.Join(url, "index.html")
	default:
		return url
	}
}
