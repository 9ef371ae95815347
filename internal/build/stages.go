package build

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	builderrors "git.home.luguber.info/inful/sitegen/internal/build/errors"
	"git.home.luguber.info/inful/sitegen/internal/linkcheck"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/render"
	"git.home.luguber.info/inful/sitegen/internal/scan"
	"git.home.luguber.info/inful/sitegen/internal/site"
)

func stagePrepareOutput(_ context.Context, st *State) error {
	if err := st.beginStaging(); err != nil {
		return newFatalStageError(StagePrepareOutput, fmt.Errorf("%w: %v", builderrors.ErrStaging, err))
	}
	return nil
}

// stageScanSource turns the source tree into the site model. Scan failures
// are always fatal: a silently incomplete site is worse than a failed build.
func stageScanSource(ctx context.Context, st *State) error {
	scanner := scan.NewScanner(st.SourceDir, st.Config, st.Engine)
	model, err := scanner.Scan(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return newCanceledStageError(StageScanSource, err)
		}
		return newFatalStageError(StageScanSource, fmt.Errorf("%w: %v", builderrors.ErrScan, err))
	}
	st.Model = model
	st.Report.Pages = len(model.Pages)
	st.Report.Collections = len(model.Collections)
	slog.Debug("Source tree scanned", logfields.Pages(len(model.Pages)), slog.Int("collections", len(model.Collections)))
	return nil
}

// stageBuildNavigation finalizes the navigation tree and the manifest hash.
// Rebuilding navigation here keeps it consistent even when the model was
// produced by a path that skipped it.
func stageBuildNavigation(_ context.Context, st *State) error {
	st.Model.Nav = site.BuildNavigation(st.Model)
	st.Report.NavigationNodes = site.CountNodes(st.Model.Nav)
	st.Report.ManifestHash = site.ManifestHash(st.Model)
	return nil
}

func stageRenderPages(ctx context.Context, st *State) error {
	renderer, err := render.New(st.Config, st.Engine)
	if err != nil {
		return newFatalStageError(StageRenderPages, fmt.Errorf("%w: %v", builderrors.ErrRender, err))
	}

	// Distinct pages can map to the same output file (a root index.md next
	// to the README home page both write index.html). Last render wins;
	// surface it instead of overwriting silently.
	written := make(map[string]string, len(st.Model.Pages))
	var collisions []string

	for _, p := range st.Model.Pages {
		select {
		case <-ctx.Done():
			return newCanceledStageError(StageRenderPages, ctx.Err())
		default:
		}
		html, out, err := renderer.RenderPage(st.Model, p)
		if err != nil {
			return newFatalStageError(StageRenderPages, fmt.Errorf("%w: %v", builderrors.ErrRender, err))
		}
		if prev, dup := written[out]; dup {
			slog.Warn("Output path collision", logfields.Output(out),
				logfields.Source(p.SourcePath), slog.String("overwrites", prev))
			collisions = append(collisions, fmt.Sprintf("%s overwrites %s at %s", p.SourcePath, prev, out))
		}
		written[out] = p.SourcePath
		dst := filepath.Join(st.StageDir, filepath.FromSlash(out))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return newFatalStageError(StageRenderPages, fmt.Errorf("%w: %v", builderrors.ErrRender, err))
		}
		if err := os.WriteFile(dst, html, 0o644); err != nil {
			return newFatalStageError(StageRenderPages, fmt.Errorf("%w: %v", builderrors.ErrRender, err))
		}
		st.Report.RenderedPages++
		slog.Debug("Rendered page", logfields.Source(p.SourcePath), logfields.Output(out))
	}

	if err := render.WriteThemeAssets(st.Config.Build.Theme, st.StageDir); err != nil {
		return newFatalStageError(StageRenderPages, fmt.Errorf("%w: %v", builderrors.ErrRender, err))
	}
	if len(collisions) > 0 {
		return newWarnStageError(StageRenderPages, fmt.Errorf("%w: %d output path collisions (first: %s)",
			builderrors.ErrRender, len(collisions), collisions[0]))
	}
	return nil
}

func stageCopyAssets(_ context.Context, st *State) error {
	n, err := render.CopyAssets(st.SourceDir, st.StageDir)
	st.Report.CopiedAssets = n
	if err != nil {
		return newFatalStageError(StageCopyAssets, fmt.Errorf("%w: %v", builderrors.ErrAssets, err))
	}
	return nil
}

// stageVerifyLinks reports broken internal links as warnings. A site with a
// dead link is still a usable site; the operator decides what to do.
func stageVerifyLinks(_ context.Context, st *State) error {
	broken, err := linkcheck.NewChecker(st.StageDir).Check()
	if err != nil {
		return newWarnStageError(StageVerifyLinks, fmt.Errorf("%w: %v", builderrors.ErrLinks, err))
	}
	st.Report.BrokenLinks = len(broken)
	if len(broken) > 0 {
		for _, b := range broken {
			slog.Warn("Broken internal link", logfields.Page(b.Page), logfields.URL(b.Target))
		}
		return newWarnStageError(StageVerifyLinks, fmt.Errorf("%w: %d broken internal links (first: %s)", builderrors.ErrLinks, len(broken), broken[0]))
	}
	return nil
}

// stageWriteReport persists the report into the staging tree so promotion
// carries it into the final output.
func stageWriteReport(_ context.Context, st *State) error {
	st.Report.deriveOutcome()
	if err := st.Report.Persist(st.StageDir); err != nil {
		// The site itself is fine; a missing report is only a warning.
		return newWarnStageError(StageWriteReport, err)
	}
	return nil
}

// defaultStages is the canonical full-build pipeline.
func defaultStages() []StageDef {
	return NewPipeline().
		Add(StagePrepareOutput, stagePrepareOutput).
		Add(StageScanSource, stageScanSource).
		Add(StageBuildNavigation, stageBuildNavigation).
		Add(StageRenderPages, stageRenderPages).
		Add(StageCopyAssets, stageCopyAssets).
		Add(StageVerifyLinks, stageVerifyLinks).
		Add(StageWriteReport, stageWriteReport).
		Build()
}
