package linkcheck

import (
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// BrokenLink describes one internal reference whose target does not exist in
// the output tree.
type BrokenLink struct {
	Page   string `json:"page"`   // output-relative path of the referencing document
	Target string `json:"target"` // raw reference as written
}

func (b BrokenLink) String() string { return fmt.Sprintf("%s -> %s", b.Page, b.Target) }

// Checker verifies internal references of a rendered output tree. It runs
// after rendering, against the staged files, so a promoted site never points
// at pages that were not written.
type Checker struct {
	root string
}

// NewChecker verifies links against the given output root.
func NewChecker(root string) *Checker {
	return &Checker{root: root}
}

// Check walks every .html file under the root and resolves internal
// references against the tree. Broken links are findings, not failures; the
// caller decides severity.
func (c *Checker) Check() ([]BrokenLink, error) {
	var broken []BrokenLink

	err := filepath.WalkDir(c.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".html") {
			return nil
		}
		rel, err := filepath.Rel(c.root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		f, err := os.Open(p)
		if err != nil {
			return err
		}
		refs, err := ExtractRefs(f)
		_ = f.Close()
		if err != nil {
			return fmt.Errorf("parse %s: %w", rel, err)
		}

		for _, ref := range refs {
			if !IsInternal(ref.Target) {
				continue
			}
			if !c.exists(rel, ref.Target) {
				broken = append(broken, BrokenLink{Page: rel, Target: ref.Target})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return broken, nil
}

// exists resolves a reference relative to the referencing page and checks the
// output tree. Directory URLs resolve to their index.html.
func (c *Checker) exists(fromPage, target string) bool {
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	p := u.Path
	if p == "" {
		// Fragment-only after parsing; nothing to resolve on disk.
		return true
	}

	if !strings.HasPrefix(p, "/") {
		p = path.Join(path.Dir("/"+fromPage), p)
	}
	p = strings.TrimPrefix(path.Clean(p), "/")
	if p == "" || strings.HasSuffix(u.Path, "/") {
		p = path.Join(p, "index.html")
	}

	full := filepath.Join(c.root, filepath.FromSlash(p))
	st, err := os.Stat(full)
	if err != nil {
		return false
	}
	if st.IsDir() {
		_, err = os.Stat(filepath.Join(full, "index.html"))
		return err == nil
	}
	return true
}
