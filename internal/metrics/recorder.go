package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultWarning  ResultLabel = "warning"
	ResultFatal    ResultLabel = "fatal"
	ResultCanceled ResultLabel = "canceled"
)

// Recorder defines observability hooks for build and stage metrics.
// Implementations may forward to Prometheus, OpenTelemetry, etc. All methods
// must be safe on nil receivers so injection stays optional.
type Recorder interface {
	ObserveBuildDuration(d time.Duration)
	ObserveStageDuration(stage string, d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncBuildOutcome(outcome string) // outcome: success|warning|failed|canceled
	SetPagesRendered(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not
// configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveBuildDuration(time.Duration)          {}
func (NoopRecorder) ObserveStageDuration(string, time.Duration)  {}
func (NoopRecorder) IncStageResult(string, ResultLabel)          {}
func (NoopRecorder) IncBuildOutcome(string)                      {}
func (NoopRecorder) SetPagesRendered(int)                        {}
