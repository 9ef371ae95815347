package linkcheck

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractRefs(t *testing.T) {
	doc := `<html><head>
<link rel="stylesheet" href="/style.css">
<script src="/livereload.js"></script>
</head><body>
<a href="/guide/">Guide</a>
<a href="CHANGELOG.html">Changelog</a>
<a href="https://example.com">External</a>
<img src="logo.png" alt="">
<a>no href</a>
</body></html>`

	refs, err := ExtractRefs(strings.NewReader(doc))
	require.NoError(t, err)

	targets := make([]string, len(refs))
	for i, r := range refs {
		targets[i] = r.Target
	}
	assert.ElementsMatch(t, []string{
		"/style.css", "/livereload.js", "/guide/", "CHANGELOG.html",
		"https://example.com", "logo.png",
	}, targets)
}

func TestIsInternal(t *testing.T) {
	cases := []struct {
		target string
		want   bool
	}{
		{"/guide/", true},
		{"setup.html", true},
		{"../index.html", true},
		{"https://example.com/x", false},
		{"//cdn.example.com/x.js", false},
		{"mailto:team@example.com", false},
		{"#section", false},
		{"", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, IsInternal(tc.target), "target %q", tc.target)
	}
}
