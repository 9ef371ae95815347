package build

import (
	"context"
	"errors"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/observability"
)

// runStages executes stages in order, recording timing, classification and
// metrics, and stopping on the first fatal or canceled error. Warnings are
// recorded and execution continues.
func runStages(ctx context.Context, st *State, stages []StageDef, rec metrics.Recorder) error {
	for _, def := range stages {
		select {
		case <-ctx.Done():
			se := newCanceledStageError(def.Name, ctx.Err())
			st.Report.StageErrorKinds[def.Name] = se.Kind
			st.Report.AddIssue(IssueCanceled, def.Name, SeverityError, se.Error(), se)
			recordStageResult(st.Report, def.Name, metrics.ResultCanceled, rec)
			return se
		default:
		}

		stageCtx := observability.WithStage(ctx, string(def.Name))
		observability.DebugContext(stageCtx, "Stage started")

		t0 := time.Now()
		err := def.Fn(stageCtx, st)
		dur := time.Since(t0)
		st.Report.StageDurations[string(def.Name)] = dur
		rec.ObserveStageDuration(string(def.Name), dur)
		observability.DebugContext(stageCtx, "Stage finished",
			logfields.DurationMS(float64(dur.Milliseconds())))

		if err == nil {
			recordStageResult(st.Report, def.Name, metrics.ResultSuccess, rec)
			continue
		}

		var se *StageError
		if !errors.As(err, &se) {
			// Unknown errors are fatal by default.
			se = newFatalStageError(def.Name, err)
		}
		st.Report.StageErrorKinds[def.Name] = se.Kind

		switch se.Kind {
		case StageErrorWarning:
			st.Report.AddIssue(issueCodeFor(def.Name), def.Name, SeverityWarning, se.Error(), se)
			recordStageResult(st.Report, def.Name, metrics.ResultWarning, rec)
		case StageErrorCanceled:
			st.Report.AddIssue(IssueCanceled, def.Name, SeverityError, se.Error(), se)
			recordStageResult(st.Report, def.Name, metrics.ResultCanceled, rec)
			return se
		default:
			st.Report.AddIssue(issueCodeFor(def.Name), def.Name, SeverityError, se.Error(), se)
			recordStageResult(st.Report, def.Name, metrics.ResultFatal, rec)
			return se
		}
	}
	return nil
}

func recordStageResult(r *Report, stage StageName, result metrics.ResultLabel, rec metrics.Recorder) {
	sc := r.StageCounts[stage]
	switch result {
	case metrics.ResultSuccess:
		sc.Success++
	case metrics.ResultWarning:
		sc.Warning++
	case metrics.ResultCanceled:
		sc.Canceled++
	default:
		sc.Fatal++
	}
	r.StageCounts[stage] = sc
	rec.IncStageResult(string(stage), result)
}

// issueCodeFor maps a stage to its canonical issue code.
func issueCodeFor(stage StageName) IssueCode {
	switch stage {
	case StageScanSource, StageBuildNavigation:
		return IssueScanFailure
	case StageRenderPages:
		return IssueRenderFailure
	case StageCopyAssets:
		return IssueAssetCopy
	case StageVerifyLinks:
		return IssueBrokenLinks
	case StagePrepareOutput:
		return IssueStaging
	default:
		return IssueGenericStage
	}
}
