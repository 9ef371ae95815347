package build

import (
	"fmt"
	"log/slog"
	"os"

	"git.home.luguber.info/inful/sitegen/internal/logfields"
)

// beginStaging creates an isolated sibling staging directory so a failed
// build never leaves a half-written output tree behind.
func (st *State) beginStaging() error {
	stage := st.OutputDir + "_stage"
	if err := os.RemoveAll(stage); err != nil {
		return fmt.Errorf("clear stale staging: %w", err)
	}
	if err := os.MkdirAll(stage, 0o755); err != nil {
		return fmt.Errorf("create staging: %w", err)
	}
	st.StageDir = stage
	slog.Debug("Initialized staging directory", "staging", stage, logfields.Output(st.OutputDir))
	return nil
}

// finalizeStaging atomically promotes the staging directory:
//  1. Move existing output (if any) to <output>.prev.
//  2. Rename staging -> output.
//  3. Remove the previous backup asynchronously, best effort.
func (st *State) finalizeStaging() error {
	if st.StageDir == "" {
		return fmt.Errorf("no staging directory initialized")
	}
	if _, err := os.Stat(st.StageDir); err != nil {
		return fmt.Errorf("staging directory missing: %w", err)
	}

	prev := st.OutputDir + ".prev"
	if _, err := os.Stat(prev); err == nil {
		if err := os.RemoveAll(prev); err != nil {
			slog.Warn("Failed to remove previous backup", logfields.Path(prev), logfields.Error(err))
		}
	}
	if _, err := os.Stat(st.OutputDir); err == nil {
		if err := os.Rename(st.OutputDir, prev); err != nil {
			return fmt.Errorf("backup existing output: %w", err)
		}
	}
	if err := os.Rename(st.StageDir, st.OutputDir); err != nil {
		return fmt.Errorf("promote staging: %w", err)
	}
	st.StageDir = ""

	go func(p string) {
		if err := os.RemoveAll(p); err != nil {
			slog.Warn("Failed to remove previous backup", logfields.Path(p), logfields.Error(err))
		}
	}(prev)

	slog.Info("Promoted staging directory", logfields.Output(st.OutputDir))
	return nil
}

// abortStaging removes the staging directory after a failed build to avoid
// orphaned temp dirs.
func (st *State) abortStaging() {
	if st.StageDir == "" {
		return
	}
	dir := st.StageDir
	st.StageDir = ""
	if err := os.RemoveAll(dir); err != nil {
		slog.Warn("Failed to remove staging directory after abort", "staging", dir, logfields.Error(err))
	} else {
		slog.Debug("Removed staging directory after abort", "staging", dir)
	}
}
