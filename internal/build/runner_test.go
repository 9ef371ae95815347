package build

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/markdown"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
)

func testState() *State {
	cfg := config.Defaults()
	return newState(cfg, markdown.NewEngine(), NewReport())
}

func TestRunStagesExecutesInOrder(t *testing.T) {
	st := testState()
	var order []string
	stages := NewPipeline().
		Add("one", func(context.Context, *State) error {
			order = append(order, "one")
			return nil
		}).
		Add("two", func(context.Context, *State) error {
			order = append(order, "two")
			return nil
		}).
		Build()

	require.NoError(t, runStages(context.Background(), st, stages, metrics.NoopRecorder{}))
	assert.Equal(t, []string{"one", "two"}, order)
	assert.Contains(t, st.Report.StageDurations, "one")
	assert.Contains(t, st.Report.StageDurations, "two")
	assert.Equal(t, 1, st.Report.StageCounts["one"].Success)
}

func TestRunStagesWarningContinues(t *testing.T) {
	st := testState()
	ran := false
	stages := NewPipeline().
		Add("warn", func(context.Context, *State) error {
			return newWarnStageError("warn", errors.New("minor"))
		}).
		Add("after", func(context.Context, *State) error {
			ran = true
			return nil
		}).
		Build()

	require.NoError(t, runStages(context.Background(), st, stages, metrics.NoopRecorder{}))
	assert.True(t, ran)
	assert.Len(t, st.Report.Warnings, 1)
	assert.Equal(t, StageErrorWarning, st.Report.StageErrorKinds["warn"])
	assert.Equal(t, 1, st.Report.StageCounts["warn"].Warning)
}

func TestRunStagesFatalStops(t *testing.T) {
	st := testState()
	ran := false
	stages := NewPipeline().
		Add("boom", func(context.Context, *State) error {
			return newFatalStageError("boom", errors.New("bad"))
		}).
		Add("after", func(context.Context, *State) error {
			ran = true
			return nil
		}).
		Build()

	err := runStages(context.Background(), st, stages, metrics.NoopRecorder{})
	require.Error(t, err)
	assert.False(t, ran)

	var se *StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, StageErrorFatal, se.Kind)
	assert.Len(t, st.Report.Errors, 1)
}

func TestRunStagesWrapsPlainErrorsAsFatal(t *testing.T) {
	st := testState()
	stages := NewPipeline().
		Add("plain", func(context.Context, *State) error {
			return errors.New("unclassified")
		}).
		Build()

	err := runStages(context.Background(), st, stages, metrics.NoopRecorder{})
	var se *StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, StageErrorFatal, se.Kind)
	assert.Equal(t, StageName("plain"), se.Stage)
}

func TestRunStagesCanceledContext(t *testing.T) {
	st := testState()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	stages := NewPipeline().
		Add("never", func(context.Context, *State) error {
			ran = true
			return nil
		}).
		Build()

	err := runStages(ctx, st, stages, metrics.NoopRecorder{})
	require.Error(t, err)
	assert.False(t, ran)

	var se *StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, StageErrorCanceled, se.Kind)

	st.Report.Finish()
	assert.Equal(t, OutcomeCanceled, st.Report.Outcome)
}

func TestPipelineAddIf(t *testing.T) {
	noop := func(context.Context, *State) error { return nil }
	defs := NewPipeline().
		Add("always", noop).
		AddIf(false, "skipped", noop).
		AddIf(true, "kept", noop).
		Build()

	require.Len(t, defs, 2)
	assert.Equal(t, StageName("always"), defs[0].Name)
	assert.Equal(t, StageName("kept"), defs[1].Name)
}
