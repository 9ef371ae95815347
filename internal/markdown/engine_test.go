package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderProducesHTMLFragment(t *testing.T) {
	e := NewEngine()
	out, err := e.Render([]byte("# Hello\n\nSome *text*.\n"))
	require.NoError(t, err)
	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "<em>text</em>")
}

func TestTitleFromFirstH1(t *testing.T) {
	e := NewEngine()

	cases := []struct {
		name string
		src  string
		want string
	}{
		{"simple", "# My Project\n\nIntro.\n", "My Project"},
		{"h1 not first block", "Intro paragraph.\n\n# Late Title\n", "Late Title"},
		{"inline markup stripped", "# The `code` *title*\n", "The code title"},
		{"no h1", "## Only a subheading\n\nBody.\n", ""},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, e.Title([]byte(tc.src)))
		})
	}
}

func TestTaglineAfterTitle(t *testing.T) {
	e := NewEngine()

	cases := []struct {
		name string
		src  string
		want string
	}{
		{"paragraph after h1", "# T\n\nThe tagline.\n\nMore.\n", "The tagline."},
		{"skips heading between", "# T\n\n## Sub\n\nAfter sub.\n", "After sub."},
		{"paragraph before h1 ignored", "Before.\n\n# T\n\nAfter.\n", "After."},
		{"no h1 uses first paragraph", "Just text.\n\nSecond.\n", "Just text."},
		{"nothing", "# T\n", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, e.Tagline([]byte(tc.src)))
		})
	}
}

func TestOutline(t *testing.T) {
	e := NewEngine()
	src := []byte("# Title\n\n## First Section\n\ntext\n\n### Nested\n\n## Second Section\n")

	headings := e.Outline(src)
	require.Len(t, headings, 4)
	assert.Equal(t, Heading{Level: 1, Text: "Title", Slug: "title"}, headings[0])
	assert.Equal(t, Heading{Level: 2, Text: "First Section", Slug: "first-section"}, headings[1])
	assert.Equal(t, Heading{Level: 3, Text: "Nested", Slug: "nested"}, headings[2])
	assert.Equal(t, Heading{Level: 2, Text: "Second Section", Slug: "second-section"}, headings[3])
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Hello World":        "hello-world",
		"Hello  World":       "hello--world",
		"v1.2.0 - Release!":  "v120---release",
		"1.0.0 - 2024-01-01": "100---2024-01-01",
		"  Spaces Around  ":  "spaces-around",
		"already-slugged":    "already-slugged",
		"Under_score":        "under-score",
		"Überblick":          "berblick",
		"":                   "heading",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "input %q", in)
	}
}

// Slugs must point at the heading IDs the renderer actually emits, or every
// changelog release link and on-this-page entry is dead.
func TestSlugifyMatchesRenderedAnchors(t *testing.T) {
	e := NewEngine()

	headings := []string{
		"1.0.0 - 2024-01-01",
		"Hello  World",
		"Überblick",
		"v1.2.0 - Release!",
		"Getting Started",
	}
	for _, h := range headings {
		t.Run(h, func(t *testing.T) {
			out, err := e.Render([]byte("## " + h + "\n"))
			require.NoError(t, err)
			assert.Contains(t, out, `id="`+Slugify(h)+`"`, "rendered: %s", out)
		})
	}
}
