package render

import (
	"html/template"
	"strings"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/markdown"
	"git.home.luguber.info/inful/sitegen/internal/site"
)

// NavItem is a text/href pair handed to templates, optionally nested.
type NavItem struct {
	Text     string
	Link     string
	Children []NavItem
}

// PageData is the template context for one rendered document. Global fields
// (Site, Navigation, HasChangelog) are identical for every page of a build;
// the rest is page-specific.
type PageData struct {
	Site         config.SiteConfig
	Navigation   []NavItem
	HasChangelog bool

	Title   string
	Tagline string
	Content template.HTML

	// home.html only
	Home *config.HomeConfig

	// changelog.html only: one link per level-2 heading
	Releases []NavItem

	// doc.html only
	CollectionPages []NavItem
	OnThisPage      []NavItem
}

// href roots a model URL for use in markup.
func href(url string) string {
	if strings.HasPrefix(url, "/") {
		return url
	}
	return "/" + url
}

// navItems converts navigation nodes to template items.
func navItems(nodes []*site.NavigationNode) []NavItem {
	items := make([]NavItem, 0, len(nodes))
	for _, n := range nodes {
		items = append(items, NavItem{
			Text:     n.Label,
			Link:     href(n.URL),
			Children: navItems(n.Children),
		})
	}
	return items
}

// releases lists the level-2 headings of a changelog page as anchor links.
// By convention the only H1 is the page title and is skipped.
func releases(engine *markdown.Engine, p *site.Page) []NavItem {
	var items []NavItem
	for _, h := range engine.Outline(p.RawContent) {
		if h.Level != 2 {
			continue
		}
		items = append(items, NavItem{Text: h.Text, Link: "#" + h.Slug})
	}
	return items
}

// onThisPage lists the headings below H1 of the current page.
func onThisPage(engine *markdown.Engine, p *site.Page) []NavItem {
	var items []NavItem
	for _, h := range engine.Outline(p.RawContent) {
		if h.Level == 1 {
			continue
		}
		items = append(items, NavItem{Text: h.Text, Link: "#" + h.Slug})
	}
	return items
}

// collectionPages builds the sidebar links for the collection containing a
// page: the index page first (when present), then the member pages in
// stored order.
func collectionPages(model *site.Model, p *site.Page) []NavItem {
	dir := collectionDir(p.SourcePath)
	if dir == "" {
		return nil
	}
	coll, ok := model.CollectionByPath(dir)
	if !ok {
		return nil
	}

	var items []NavItem
	if coll.IndexPage != "" {
		if idx, ok := model.PageBySource(coll.IndexPage); ok {
			items = append(items, NavItem{Text: idx.Title, Link: href(idx.URL)})
		}
	}
	for _, sp := range coll.Pages {
		if member, ok := model.PageBySource(sp); ok {
			items = append(items, NavItem{Text: member.Title, Link: href(member.URL)})
		}
	}
	return items
}

func collectionDir(sourcePath string) string {
	i := strings.LastIndex(sourcePath, "/")
	if i < 0 {
		return ""
	}
	return sourcePath[:i]
}
