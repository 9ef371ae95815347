package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/markdown"
	"git.home.luguber.info/inful/sitegen/internal/site"
)

//go:embed theme
var defaultTheme embed.FS

// Template names selected per page type.
const (
	TemplateHome      = "home.html"
	TemplateChangelog = "changelog.html"
	TemplateDoc       = "doc.html"
	TemplatePage      = "page.html"
)

// TemplateFor maps a page to its template: home and changelog get dedicated
// templates, pages inside a collection (index pages included) get the doc
// layout with sidebar, root-level regular pages get the plain layout.
func TemplateFor(p *site.Page) string {
	switch p.Type {
	case site.PageHome:
		return TemplateHome
	case site.PageChangelog:
		return TemplateChangelog
	default:
		if strings.Contains(p.SourcePath, "/") {
			return TemplateDoc
		}
		return TemplatePage
	}
}

// Renderer turns finalized pages into full HTML documents. The embedded
// default theme is used unless a theme directory provides an override with
// the same filename.
type Renderer struct {
	tpl    *template.Template
	engine *markdown.Engine
	cfg    *config.Config
}

// New parses the embedded theme and any per-file overrides from themeDir.
func New(cfg *config.Config, engine *markdown.Engine) (*Renderer, error) {
	tpl, err := template.ParseFS(defaultTheme, "theme/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse embedded theme: %w", err)
	}

	if dir := cfg.Build.Theme; dir != "" {
		overrides, err := filepath.Glob(filepath.Join(dir, "*.html"))
		if err != nil {
			return nil, fmt.Errorf("list theme overrides: %w", err)
		}
		for _, path := range overrides {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("read theme override %s: %w", path, err)
			}
			// Parsing under the same name replaces the embedded definition.
			if _, err := tpl.New(filepath.Base(path)).Parse(string(data)); err != nil {
				return nil, fmt.Errorf("parse theme override %s: %w", path, err)
			}
		}
	}

	return &Renderer{tpl: tpl, engine: engine, cfg: cfg}, nil
}

// RenderPage produces the final HTML document for a page and the output
// path (relative to the output dir) it should be written to.
func (r *Renderer) RenderPage(model *site.Model, p *site.Page) ([]byte, string, error) {
	data := PageData{
		Site:         r.cfg.Site,
		Navigation:   navItems(model.Nav.Children),
		HasChangelog: model.HasChangelog(),
		Title:        p.Title,
		Tagline:      p.Tagline,
	}

	src := p.RawContent
	tplName := TemplateFor(p)

	switch tplName {
	case TemplateHome:
		home := r.cfg.Home
		data.Home = &home
		if home.Hero {
			// The hero block presents the title and tagline; drop them
			// from the body so they do not appear twice.
			src = stripHero(src)
		}
	case TemplateChangelog:
		data.Releases = releases(r.engine, p)
	case TemplateDoc:
		data.CollectionPages = collectionPages(model, p)
		data.OnThisPage = onThisPage(r.engine, p)
	}

	body, err := r.engine.Render(src)
	if err != nil {
		return nil, "", fmt.Errorf("render %s: %w", p.SourcePath, err)
	}
	data.Content = template.HTML(body)

	var buf bytes.Buffer
	if err := r.tpl.ExecuteTemplate(&buf, tplName, data); err != nil {
		return nil, "", fmt.Errorf("execute template %s for %s: %w", tplName, p.SourcePath, err)
	}
	return buf.Bytes(), site.OutputPath(p.URL), nil
}

// stripHero removes the first level-1 heading line and the first non-empty
// paragraph following it from raw Markdown.
func stripHero(src []byte) []byte {
	lines := strings.Split(string(src), "\n")
	out := make([]string, 0, len(lines))

	removedH1 := false
	removingPara := false
	removedPara := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !removedH1 {
			if strings.HasPrefix(trimmed, "# ") || trimmed == "#" {
				removedH1 = true
				continue
			}
			out = append(out, line)
			continue
		}
		if !removedPara {
			if removingPara {
				if trimmed == "" {
					removedPara = true
					out = append(out, line)
				}
				continue
			}
			if trimmed == "" {
				out = append(out, line)
				continue
			}
			if strings.HasPrefix(trimmed, "#") {
				// A heading before any paragraph: nothing to strip.
				removedPara = true
				out = append(out, line)
				continue
			}
			removingPara = true
			continue
		}
		out = append(out, line)
	}
	return []byte(strings.Join(out, "\n"))
}
