//go:build property
// +build property

package scan

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/markdown"
	"git.home.luguber.info/inful/sitegen/internal/site"
)

// TestScannerProperties checks determinism and classification invariants
// over generated source trees. Run with: go test -tags property ./internal/scan
func TestScannerProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// Property: scanning the same generated tree twice yields the same
	// manifest hash and page order.
	properties.Property("rescan is idempotent", prop.ForAll(
		func(names []string) bool {
			root, err := os.MkdirTemp("", "sitegen-prop")
			if err != nil {
				return false
			}
			defer os.RemoveAll(root)

			seen := map[string]bool{}
			for _, n := range names {
				if n == "" || seen[n] {
					continue
				}
				seen[n] = true
				path := filepath.Join(root, n+".md")
				if err := os.WriteFile(path, []byte("# "+n+"\n"), 0o644); err != nil {
					return false
				}
			}

			scanOnce := func() (*site.Model, error) {
				s := NewScanner(root, config.Defaults(), markdown.NewEngine())
				return s.Scan(context.Background())
			}

			m1, err1 := scanOnce()
			m2, err2 := scanOnce()
			if err1 != nil || err2 != nil {
				return false
			}
			if len(m1.Pages) != len(m2.Pages) {
				return false
			}
			for i := range m1.Pages {
				if m1.Pages[i].SourcePath != m2.Pages[i].SourcePath || m1.Pages[i].URL != m2.Pages[i].URL {
					return false
				}
			}
			return site.ManifestHash(m1) == site.ManifestHash(m2)
		},
		gen.SliceOf(gen.AlphaString()),
	))

	// Property: any markdown filename that is not README/CHANGELOG/index
	// classifies as a regular page, at every depth.
	properties.Property("unreserved names classify regular", prop.ForAll(
		func(name string, nested bool) bool {
			if name == "" {
				return true
			}
			lower := name + ".md"
			switch lower {
			case "readme.md", "changelog.md", "index.md":
				return true // reserved names are covered by table tests
			}
			source := lower
			if nested {
				source = "sub/" + lower
			}
			return ClassifyPath(source) == site.PageRegular
		},
		gen.AlphaLowerString(),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
