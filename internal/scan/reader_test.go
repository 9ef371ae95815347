package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	serrors "git.home.luguber.info/inful/sitegen/internal/scan/errors"
)

func TestReadReturnsContent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "guide"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "guide", "a.md"), []byte("# A\n"), 0o644))

	r := NewContentReader(dir)
	data, err := r.Read("guide/a.md")
	require.NoError(t, err)
	assert.Equal(t, "# A\n", string(data))
}

func TestReadMissingFileIsContentReadError(t *testing.T) {
	r := NewContentReader(t.TempDir())
	_, err := r.Read("missing.md")
	require.Error(t, err)
	assert.ErrorIs(t, err, serrors.ErrContentRead)
}

func TestReadRejectsNonUTF8(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bin.md"), []byte{0xff, 0xfe, 0x00, 0x80}, 0o644))

	r := NewContentReader(dir)
	_, err := r.Read("bin.md")
	require.Error(t, err)
	assert.ErrorIs(t, err, serrors.ErrContentRead)
}
