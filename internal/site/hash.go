package site

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/inful/mdfp"
)

// ManifestHash computes a deterministic hash over the model: one line per
// page (source path, content fingerprint, title, URL) in sorted order, then
// one line per collection. Re-scanning an unchanged tree yields the same
// hash, which drives idempotence tests, the build report, and livereload
// change detection.
func ManifestHash(m *Model) string {
	if m == nil || (len(m.Pages) == 0 && len(m.Collections) == 0) {
		// Empty model has a known hash.
		h := sha256.Sum256([]byte("empty-site-model"))
		return hex.EncodeToString(h[:])
	}

	type entry struct {
		path string
		line string
	}
	entries := make([]entry, 0, len(m.Pages)+len(m.Collections))

	for _, p := range m.Pages {
		fp := mdfp.CalculateFingerprintFromParts("", string(p.RawContent))
		entries = append(entries, entry{
			path: "page:" + p.SourcePath,
			line: fmt.Sprintf("page|%s|%s|%s|%s|%s", p.SourcePath, fp, string(p.Type), p.Title, p.URL),
		})
	}
	for _, c := range m.Collections {
		entries = append(entries, entry{
			path: "coll:" + c.Path,
			line: fmt.Sprintf("coll|%s|%s|%d|%d", c.Path, c.IndexPage, len(c.Pages), len(c.Collections)),
		})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].path < entries[j].path })

	h := sha256.New()
	for _, e := range entries {
		h.Write([]byte(e.line))
		h.Write([]byte("\n"))
	}
	return hex.EncodeToString(h.Sum(nil))
}
