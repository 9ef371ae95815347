package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegen/internal/build"
	"git.home.luguber.info/inful/sitegen/internal/config"
)

func writeFileHelper(root, rel, content string) error {
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Defaults()
	cfg.Build.Output = t.TempDir()
	return New(cfg, build.New(cfg))
}

func TestHealthzStarting(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.handleHealthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "starting", payload["status"])
}

func TestHealthzReportsLastBuild(t *testing.T) {
	s := newTestServer(t)
	report := build.NewReport()
	report.Pages = 4
	report.ManifestHash = "abc"
	report.Finish()
	s.status.record(report, nil)

	rec := httptest.NewRecorder()
	s.handleHealthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "ok", payload["status"])

	last, ok := payload["last_build"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, report.BuildID, last["build_id"])
	assert.Equal(t, "success", last["outcome"])
	assert.Equal(t, "abc", last["hash"])
}

func TestHealthzDegradedAfterFailedRebuild(t *testing.T) {
	s := newTestServer(t)

	good := build.NewReport()
	good.Finish()
	s.status.record(good, nil)

	bad := build.NewReport()
	bad.Finish()
	s.status.record(bad, errors.New("scan failed"))

	rec := httptest.NewRecorder()
	s.handleHealthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "degraded", payload["status"])
	assert.Equal(t, "scan failed", payload["last_error"])
}

func TestRoutesServeOutputDirectory(t *testing.T) {
	s := newTestServer(t)
	writeOut := func(rel, content string) {
		require.NoError(t, writeFileHelper(s.cfg.Build.Output, rel, content))
	}
	writeOut("index.html", "<body>home</body>")

	srv := httptest.NewServer(s.routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestDebouncerCoalescesBursts(t *testing.T) {
	d := newDebouncer()
	for i := 0; i < 10; i++ {
		d.Trigger()
	}

	select {
	case <-d.req:
	case <-time.After(2 * debounceWindow):
		t.Fatal("expected one debounced request")
	}

	// No second request should follow the burst.
	select {
	case <-d.req:
		t.Fatal("burst must coalesce to a single request")
	case <-time.After(2 * debounceWindow):
	}
}

func TestShouldIgnoreEvent(t *testing.T) {
	cases := []struct {
		path string
		want bool
	}{
		{"/site/page.md", false},
		{"/site/.page.md.swp", true},
		{"/site/page.md~", true},
		{"/site/#page.md#", true},
		{"/site/.git", true},
		{"/site/Thumbs.db", true},
		{"/site/4913", true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, shouldIgnoreEvent(tc.path), "path %s", tc.path)
	}
}
