package render

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/sitegen/internal/scan"
)

// CopyAssets copies every non-Markdown, non-hidden regular file from the
// source tree into the output tree, preserving relative paths. Markdown is
// the scanner's business; everything else (images, downloads) is carried
// over verbatim.
func CopyAssets(sourceDir, outputDir string) (int, error) {
	copied := 0
	err := filepath.WalkDir(sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if strings.HasPrefix(name, ".") && path != sourceDir {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() || scan.IsMarkdown(name) {
			return nil
		}

		rel, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return err
		}
		dst := filepath.Join(outputDir, rel)
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}
		if err := copyFile(path, dst); err != nil {
			return err
		}
		copied++
		return nil
	})
	if err != nil {
		return copied, fmt.Errorf("copy assets: %w", err)
	}
	return copied, nil
}

// WriteThemeAssets writes the embedded stylesheet into the output root. A
// theme directory may provide its own style.css which wins.
func WriteThemeAssets(themeDir, outputDir string) error {
	if themeDir != "" {
		custom := filepath.Join(themeDir, "style.css")
		if _, err := os.Stat(custom); err == nil {
			return copyFile(custom, filepath.Join(outputDir, "style.css"))
		}
	}
	data, err := defaultTheme.ReadFile("theme/style.css")
	if err != nil {
		return fmt.Errorf("read embedded stylesheet: %w", err)
	}
	return os.WriteFile(filepath.Join(outputDir, "style.css"), data, 0o644)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	_, err = io.Copy(out, in)
	return err
}
