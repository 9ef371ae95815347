// Package errors provides sentinel errors for source tree scanning.
// All of them are fatal: a silently incomplete site is worse than a failed
// build, so the scanner never degrades to partial output.
package errors

import "errors"

var (
	// ErrSourceNotFound indicates the configured source root does not exist
	// or is not a directory.
	ErrSourceNotFound = errors.New("source directory not found")

	// ErrDirectoryRead indicates listing a directory in the source tree failed.
	ErrDirectoryRead = errors.New("source directory read failed")

	// ErrContentRead indicates reading a Markdown file failed or the file is
	// not valid UTF-8 text.
	ErrContentRead = errors.New("page content read failed")
)
