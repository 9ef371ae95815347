package build

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportOutcomeDerivation(t *testing.T) {
	t.Run("no issues is success", func(t *testing.T) {
		r := NewReport()
		r.Finish()
		assert.Equal(t, OutcomeSuccess, r.Outcome)
	})

	t.Run("warnings only", func(t *testing.T) {
		r := NewReport()
		r.Warnings = append(r.Warnings, errors.New("w"))
		r.Finish()
		assert.Equal(t, OutcomeWarning, r.Outcome)
	})

	t.Run("errors win over warnings", func(t *testing.T) {
		r := NewReport()
		r.Warnings = append(r.Warnings, errors.New("w"))
		r.Errors = append(r.Errors, errors.New("e"))
		r.Finish()
		assert.Equal(t, OutcomeFailed, r.Outcome)
	})

	t.Run("canceled stage error yields canceled", func(t *testing.T) {
		r := NewReport()
		r.Errors = append(r.Errors, newCanceledStageError(StageScanSource, errors.New("ctx")))
		r.Finish()
		assert.Equal(t, OutcomeCanceled, r.Outcome)
	})
}

func TestReportAddIssueMirrorsBySeverity(t *testing.T) {
	r := NewReport()
	r.AddIssue(IssueBrokenLinks, StageVerifyLinks, SeverityWarning, "3 broken", errors.New("broken"))
	r.AddIssue(IssueScanFailure, StageScanSource, SeverityError, "boom", errors.New("boom"))

	assert.Len(t, r.Warnings, 1)
	assert.Len(t, r.Errors, 1)
	assert.Len(t, r.Issues, 2)
}

func TestReportPersist(t *testing.T) {
	dir := t.TempDir()
	r := NewReport()
	r.Pages = 4
	r.Collections = 1
	r.RenderedPages = 4
	r.ManifestHash = "abc"
	r.AddIssue(IssueBrokenLinks, StageVerifyLinks, SeverityWarning, "1 broken", errors.New("broken"))

	require.NoError(t, r.Persist(dir))

	data, err := os.ReadFile(filepath.Join(dir, "build-report.json"))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, r.BuildID, got["build_id"])
	assert.Equal(t, "warning", got["outcome"])
	assert.Equal(t, float64(4), got["pages"])
	assert.Equal(t, "abc", got["manifest_hash"])

	txt, err := os.ReadFile(filepath.Join(dir, "build-report.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(txt), "outcome=warning")
	assert.Contains(t, string(txt), "pages=4")
}

func TestBuildIDsAreUnique(t *testing.T) {
	a, b := NewReport(), NewReport()
	assert.NotEqual(t, a.BuildID, b.BuildID)
	assert.NotEmpty(t, a.BuildID)
}
