package scan

import (
	"path"
	"strings"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/markdown"
	"git.home.luguber.info/inful/sitegen/internal/site"
)

// typeRule maps a filename/path predicate to a page type. Rules are
// evaluated top-down, first match wins, comparisons case-insensitive.
type typeRule struct {
	match func(name string, atRoot bool) bool
	typ   site.PageType
}

var typeRules = []typeRule{
	{func(name string, atRoot bool) bool { return atRoot && strings.EqualFold(name, "README.md") }, site.PageHome},
	{func(name string, _ bool) bool { return strings.EqualFold(name, "CHANGELOG.md") }, site.PageChangelog},
	{func(name string, atRoot bool) bool { return !atRoot && strings.EqualFold(name, "index.md") }, site.PageIndex},
}

// ClassifyPath returns the page type for a source path relative to the
// source root. Callers must only pass Markdown paths (IsMarkdown).
func ClassifyPath(sourcePath string) site.PageType {
	name := path.Base(sourcePath)
	atRoot := !strings.Contains(sourcePath, "/")
	for _, r := range typeRules {
		if r.match(name, atRoot) {
			return r.typ
		}
	}
	return site.PageRegular
}

// IsMarkdown reports whether a filename is a candidate page. Everything else
// is ignored by the scanner and left to the asset copy pass.
func IsMarkdown(name string) bool {
	return strings.EqualFold(path.Ext(name), ".md")
}

// Classifier turns a source path plus raw content into a finalized Page:
// type from the path rules, title and tagline from content with config
// overrides applied last, URL derived from the path.
type Classifier struct {
	cfg    *config.Config
	engine *markdown.Engine
}

// NewClassifier constructs a classifier bound to one build's config.
func NewClassifier(cfg *config.Config, engine *markdown.Engine) *Classifier {
	return &Classifier{cfg: cfg, engine: engine}
}

// Classify finalizes one page. Pure given its inputs; safe to call from
// multiple workers concurrently.
func (c *Classifier) Classify(sourcePath string, content []byte) *site.Page {
	pt := ClassifyPath(sourcePath)

	title := c.engine.Title(content)
	if title == "" {
		title = site.Humanize(sourcePath)
	}
	if ov, ok := c.cfg.TitleOverride(sourcePath); ok {
		title = ov
	}

	tagline := ""
	if pt == site.PageHome {
		tagline = c.engine.Tagline(content)
		if ov, ok := c.cfg.TaglineOverride(sourcePath); ok {
			tagline = ov
		}
	}

	return &site.Page{
		SourcePath: sourcePath,
		Type:       pt,
		Title:      title,
		Tagline:    tagline,
		URL:        site.DeriveURL(sourcePath, pt),
		RawContent: content,
	}
}
