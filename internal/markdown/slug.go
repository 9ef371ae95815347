package markdown

import "strings"

// Slugify converts heading text to the exact anchor goldmark's auto heading
// IDs produce: ASCII letters lowercased, digits kept, each space/hyphen/
// underscore becomes one hyphen (runs are not collapsed), every other byte —
// including all non-ASCII — is dropped. Empty results fall back to "heading",
// as goldmark does.
func Slugify(text string) string {
	var b strings.Builder
	for _, c := range []byte(strings.TrimSpace(text)) {
		switch {
		case c >= 0x80:
			// Multi-byte runes never contribute to the anchor.
		case 'a' <= c && c <= 'z' || '0' <= c && c <= '9':
			b.WriteByte(c)
		case 'A' <= c && c <= 'Z':
			b.WriteByte(c + 'a' - 'A')
		case c == ' ' || c == '\t' || c == '\n' || c == '\v' || c == '\f' || c == '\r' || c == '-' || c == '_':
			b.WriteByte('-')
		}
	}
	if b.Len() == 0 {
		return "heading"
	}
	return b.String()
}
