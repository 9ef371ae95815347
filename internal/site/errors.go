package site

import "errors"

// ErrInvariantViolation indicates the model was fed inconsistent entities
// (duplicate source path, dangling member reference). It signals a scanner
// bug and is fatal: no partial model is ever published.
var ErrInvariantViolation = errors.New("site model invariant violation")
