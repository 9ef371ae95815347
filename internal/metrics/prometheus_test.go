package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration("render_pages", 150*time.Millisecond)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncStageResult("render_pages", ResultSuccess)
	pr.IncBuildOutcome("success")
	pr.SetPagesRendered(12)

	// Basic scrape to ensure metrics encode without panic.
	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)

	names := make(map[string]bool, len(mfs))
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	assert.True(t, names["sitegen_build_duration_seconds"])
	assert.True(t, names["sitegen_pages_rendered"])
}

func TestNilRecorderIsSafe(t *testing.T) {
	var pr *PrometheusRecorder
	pr.ObserveStageDuration("scan_source", time.Millisecond)
	pr.ObserveBuildDuration(time.Millisecond)
	pr.IncStageResult("scan_source", ResultFatal)
	pr.IncBuildOutcome("failed")
	pr.SetPagesRendered(0)
}

func TestNoopRecorderSatisfiesInterface(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveBuildDuration(time.Second)
	r.IncBuildOutcome("success")
}
