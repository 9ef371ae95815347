package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyDir        = "dir"
	KeySource     = "source"
	KeyOutput     = "output"
	KeyURL        = "url"
	KeyPage       = "page"
	KeyCollection = "collection"
	KeyPages      = "pages"
	KeyTemplate   = "template"
	KeyOutcome    = "outcome"
	KeyHash       = "hash"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr     { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Dir(d string) slog.Attr          { return slog.String(KeyDir, d) }
func Source(s string) slog.Attr       { return slog.String(KeySource, s) }
func Output(o string) slog.Attr       { return slog.String(KeyOutput, o) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Page(p string) slog.Attr         { return slog.String(KeyPage, p) }
func Collection(c string) slog.Attr   { return slog.String(KeyCollection, c) }
func Pages(n int) slog.Attr           { return slog.Int(KeyPages, n) }
func Template(t string) slog.Attr     { return slog.String(KeyTemplate, t) }
func Outcome(o string) slog.Attr      { return slog.String(KeyOutcome, o) }
func Hash(h string) slog.Attr         { return slog.String(KeyHash, h) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
