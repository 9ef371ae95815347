package site

import (
	"path"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// Humanize converts a file or directory name into a readable label:
// extension stripped, hyphens/underscores replaced with spaces, words
// capitalized. Used as the title fallback when content has no level-1
// heading and for collection labels without an index page.
func Humanize(name string) string {
	base := path.Base(name)
	base = strings.TrimSuffix(base, path.Ext(base))
	base = strings.ReplaceAll(base, "-", " ")
	base = strings.ReplaceAll(base, "_", " ")
	base = strings.Join(strings.Fields(base), " ")
	return titleCaser.String(base)
}
