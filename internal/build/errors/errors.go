// Package errors provides sentinel errors classifying build pipeline
// failures. They are always wrapped with contextual information at the call
// site.
package errors

import "errors"

var (
	// ErrScan indicates the source tree could not be turned into a site model.
	ErrScan = errors.New("sitegen: scan error")

	// ErrRender indicates template execution or Markdown rendering failed.
	ErrRender = errors.New("sitegen: render error")

	// ErrAssets indicates static asset copying failed.
	ErrAssets = errors.New("sitegen: asset copy error")

	// ErrLinks indicates link verification could not run (not that links are
	// broken; broken links are warnings).
	ErrLinks = errors.New("sitegen: link verification error")

	// ErrStaging indicates the staging directory could not be prepared or
	// promoted.
	ErrStaging = errors.New("sitegen: staging error")
)
