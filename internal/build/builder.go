package build

import (
	"context"
	"fmt"
	"log/slog"

	builderrors "git.home.luguber.info/inful/sitegen/internal/build/errors"
	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/events"
	"git.home.luguber.info/inful/sitegen/internal/history"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/markdown"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/observability"
)

// Builder orchestrates the full site build: the stage pipeline, atomic
// staging promotion, and post-build bookkeeping (metrics, history, events).
type Builder struct {
	cfg      *config.Config
	engine   *markdown.Engine
	recorder metrics.Recorder
	history  *history.Store
	events   *events.Publisher
}

// Option configures optional Builder collaborators.
type Option func(*Builder)

// WithRecorder injects a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(b *Builder) {
		if r != nil {
			b.recorder = r
		}
	}
}

// WithHistory injects a build history store.
func WithHistory(s *history.Store) Option {
	return func(b *Builder) { b.history = s }
}

// WithEvents injects a build event publisher.
func WithEvents(p *events.Publisher) Option {
	return func(b *Builder) { b.events = p }
}

// New constructs a Builder.
func New(cfg *config.Config, opts ...Option) *Builder {
	b := &Builder{
		cfg:      cfg,
		engine:   markdown.NewEngine(),
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Run executes one full build. The returned report is always non-nil, even
// on failure; the error is the first fatal or canceled stage error.
func (b *Builder) Run(ctx context.Context) (*Report, error) {
	report := NewReport()
	st := newState(b.cfg, b.engine, report)
	ctx = observability.WithBuildID(ctx, report.BuildID)

	slog.Info("Build started",
		logfields.BuildID(report.BuildID),
		logfields.Source(st.SourceDir),
		logfields.Output(st.OutputDir))

	err := runStages(ctx, st, defaultStages(), b.recorder)
	if err != nil {
		st.abortStaging()
	} else if perr := st.finalizeStaging(); perr != nil {
		err = newFatalStageError(StageWriteReport, fmt.Errorf("%w: %v", builderrors.ErrStaging, perr))
		report.AddIssue(IssueStaging, StageWriteReport, SeverityError, err.Error(), err)
		st.abortStaging()
	}

	report.Finish()
	b.recorder.ObserveBuildDuration(report.Duration())
	b.recorder.IncBuildOutcome(string(report.Outcome))
	b.recorder.SetPagesRendered(report.RenderedPages)

	b.recordHistory(ctx, report)
	b.publishEvent(report)

	slog.Info("Build finished",
		logfields.BuildID(report.BuildID),
		logfields.Outcome(string(report.Outcome)),
		logfields.Pages(report.RenderedPages),
		logfields.DurationMS(float64(report.Duration().Milliseconds())),
		logfields.Hash(report.ManifestHash))
	return report, err
}

func (b *Builder) recordHistory(ctx context.Context, report *Report) {
	if b.history == nil {
		return
	}
	rec := history.Record{
		BuildID:     report.BuildID,
		Start:       report.Start,
		End:         report.End,
		Outcome:     string(report.Outcome),
		Pages:       report.Pages,
		Collections: report.Collections,
		Hash:        report.ManifestHash,
	}
	if len(report.Errors) > 0 {
		rec.Error = report.Errors[0].Error()
	}
	if err := b.history.Append(ctx, rec); err != nil {
		slog.Warn("Failed to record build history", logfields.BuildID(report.BuildID), logfields.Error(err))
	}
}

func (b *Builder) publishEvent(report *Report) {
	if b.events == nil {
		return
	}
	ev := events.BuildEvent{
		BuildID:     report.BuildID,
		Outcome:     string(report.Outcome),
		Pages:       report.Pages,
		Collections: report.Collections,
		Hash:        report.ManifestHash,
		Start:       report.Start,
		End:         report.End,
		Warnings:    len(report.Warnings),
		Errors:      len(report.Errors),
	}
	if err := b.events.Publish(ev); err != nil {
		slog.Warn("Failed to publish build event", logfields.BuildID(report.BuildID), logfields.Error(err))
	}
}
