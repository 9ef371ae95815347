package scan

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/markdown"
	serrors "git.home.luguber.info/inful/sitegen/internal/scan/errors"
	"git.home.luguber.info/inful/sitegen/internal/site"
)

// Scanner walks the source tree and produces the complete site model:
// all Pages, all Collections, and the navigation tree. Traversal is
// depth-first and lexicographic so repeated scans of an unchanged tree
// produce identical output.
type Scanner struct {
	root       string
	reader     *ContentReader
	classifier *Classifier
	workers    int
}

// NewScanner constructs a scanner for one build.
func NewScanner(root string, cfg *config.Config, engine *markdown.Engine) *Scanner {
	workers := runtime.NumCPU()
	if workers > 8 {
		workers = 8
	}
	return &Scanner{
		root:       root,
		reader:     NewContentReader(root),
		classifier: NewClassifier(cfg, engine),
		workers:    workers,
	}
}

// dirEntry captures one directory's immediate Markdown files and subdirs,
// recorded in traversal (pre-)order.
type dirEntry struct {
	path    string   // relative dir path, "" for the source root
	files   []string // immediate markdown source paths, lexicographic
	subdirs []string // immediate markdown-bearing subdir paths, lexicographic
}

// Scan produces the site model. Reading and classification run on a worker
// pool; results are merged back into traversal order before collections and
// navigation are built, so ordering never depends on read completion order.
// Cancellation abandons the model under construction outright.
func (s *Scanner) Scan(ctx context.Context) (*site.Model, error) {
	if st, err := os.Stat(s.root); err != nil || !st.IsDir() {
		return nil, fmt.Errorf("%w: %s", serrors.ErrSourceNotFound, s.root)
	}

	dirs, files, err := s.collect("")
	if err != nil {
		return nil, err
	}
	slog.Debug("Source tree collected", logfields.Source(s.root), logfields.Pages(len(files)), slog.Int("dirs", len(dirs)))

	pages, err := s.readAndClassify(ctx, files)
	if err != nil {
		return nil, err
	}

	model := site.NewModel()
	for _, p := range pages {
		if err := model.AddPage(p); err != nil {
			return nil, err
		}
	}

	for _, d := range dirs {
		if d.path == "" {
			// The root is the implicit container, never a Collection.
			continue
		}
		coll := &site.Collection{Path: d.path, Collections: d.subdirs}
		for _, sp := range d.files {
			if strings.EqualFold(path.Base(sp), "index.md") {
				coll.IndexPage = sp
				continue
			}
			coll.Pages = append(coll.Pages, sp)
		}
		if err := model.AddCollection(coll); err != nil {
			return nil, err
		}
	}
	if err := model.Validate(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	model.Nav = site.BuildNavigation(model)
	return model, nil
}

// collect walks the tree depth-first, returning markdown-bearing directories
// in pre-order and all markdown file paths in traversal order. Directories
// without any Markdown descendant are excluded entirely.
func (s *Scanner) collect(rel string) ([]dirEntry, []string, error) {
	entries, err := os.ReadDir(filepath.Join(s.root, filepath.FromSlash(rel)))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %w", serrors.ErrDirectoryRead, rel, err)
	}

	d := dirEntry{path: rel}
	var childDirs []dirEntry
	var files []string

	// os.ReadDir returns entries sorted by name, which gives us the
	// lexicographic traversal the determinism property depends on.
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		child := name
		if rel != "" {
			child = rel + "/" + name
		}
		if e.IsDir() {
			subDirs, subFiles, err := s.collect(child)
			if err != nil {
				return nil, nil, err
			}
			if len(subFiles) > 0 {
				d.subdirs = append(d.subdirs, child)
				childDirs = append(childDirs, subDirs...)
				files = append(files, subFiles...)
			}
			continue
		}
		if e.Type().IsRegular() && IsMarkdown(name) {
			d.files = append(d.files, child)
		}
	}

	if len(d.files) == 0 && len(d.subdirs) == 0 {
		return nil, nil, nil
	}

	// Immediate files precede subtree files: depth-first, parent first.
	ordered := append(append([]string{}, d.files...), files...)
	return append([]dirEntry{d}, childDirs...), ordered, nil
}

// readAndClassify fans file reads and classification out to the worker pool
// and merges results back by index. The first error cancels the pool and
// fails the scan: partial site generation is disallowed.
func (s *Scanner) readAndClassify(ctx context.Context, files []string) ([]*site.Page, error) {
	pages := make([]*site.Page, len(files))
	jobs := make(chan int)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
			cancel()
		}
		mu.Unlock()
	}

	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					return
				}
				content, err := s.reader.Read(files[i])
				if err != nil {
					fail(err)
					return
				}
				pages[i] = s.classifier.Classify(files[i], content)
			}
		}()
	}

dispatch:
	for i := range files {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return pages, nil
}
