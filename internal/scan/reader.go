package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	serrors "git.home.luguber.info/inful/sitegen/internal/scan/errors"
)

// ContentReader reads raw page text from the source tree. Thin I/O wrapper so
// the classifier stays pure and testable.
type ContentReader struct {
	root string
}

// NewContentReader creates a reader rooted at the source directory.
func NewContentReader(root string) *ContentReader {
	return &ContentReader{root: root}
}

// Read returns the raw bytes of a page by its slash-separated source path.
// Non-UTF8 content is rejected: such a file cannot be a Markdown page and
// aborting beats emitting garbage.
func (r *ContentReader) Read(sourcePath string) ([]byte, error) {
	full := filepath.Join(r.root, filepath.FromSlash(sourcePath))
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", serrors.ErrContentRead, sourcePath, err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: %s: not valid UTF-8 text", serrors.ErrContentRead, sourcePath)
	}
	return data, nil
}
