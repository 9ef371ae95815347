package site

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManifestHashEmptyModelIsStable(t *testing.T) {
	assert.Equal(t, ManifestHash(NewModel()), ManifestHash(NewModel()))
	assert.Equal(t, ManifestHash(nil), ManifestHash(NewModel()))
}

func TestManifestHashIdempotent(t *testing.T) {
	build := func() *Model {
		m := NewModel()
		require.NoError(t, m.AddPage(&Page{SourcePath: "README.md", Type: PageHome, Title: "T", URL: "/", RawContent: []byte("# T\n")}))
		require.NoError(t, m.AddPage(&Page{SourcePath: "guide/a.md", Type: PageRegular, Title: "A", URL: "guide/a.html", RawContent: []byte("# A\n")}))
		require.NoError(t, m.AddCollection(&Collection{Path: "guide", Pages: []string{"guide/a.md"}}))
		return m
	}
	assert.Equal(t, ManifestHash(build()), ManifestHash(build()))
}

func TestManifestHashSensitiveToContent(t *testing.T) {
	m1 := NewModel()
	require.NoError(t, m1.AddPage(&Page{SourcePath: "a.md", Type: PageRegular, Title: "A", URL: "a.html", RawContent: []byte("one")}))

	m2 := NewModel()
	require.NoError(t, m2.AddPage(&Page{SourcePath: "a.md", Type: PageRegular, Title: "A", URL: "a.html", RawContent: []byte("two")}))

	assert.NotEqual(t, ManifestHash(m1), ManifestHash(m2))
}

func TestManifestHashSensitiveToTitleOverride(t *testing.T) {
	m1 := NewModel()
	require.NoError(t, m1.AddPage(&Page{SourcePath: "a.md", Type: PageRegular, Title: "Extracted", URL: "a.html"}))

	m2 := NewModel()
	require.NoError(t, m2.AddPage(&Page{SourcePath: "a.md", Type: PageRegular, Title: "Overridden", URL: "a.html"}))

	assert.NotEqual(t, ManifestHash(m1), ManifestHash(m2))
}
