// Package server implements the development server: static serving of the
// generated site, filesystem watching with coalesced rebuilds, SSE
// livereload, health and metrics endpoints, and optional scheduled rebuilds.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/sitegen/internal/build"
	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/history"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
)

// buildStatus tracks the most recent build outcome for /healthz. The served
// tree always stays the last good one; errors are reported, not served.
type buildStatus struct {
	mu           sync.RWMutex
	lastError    error
	lastReport   *build.Report
	hasGoodBuild bool
}

func (bs *buildStatus) record(report *build.Report, err error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastReport = report
	bs.lastError = err
	if err == nil {
		bs.hasGoodBuild = true
	}
}

func (bs *buildStatus) snapshot() (*build.Report, error, bool) {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.lastReport, bs.lastError, bs.hasGoodBuild
}

// Server is the development server.
type Server struct {
	cfg      *config.Config
	builder  *build.Builder
	hub      *LiveReloadHub
	status   *buildStatus
	debounce *debouncer

	recorder *metrics.PrometheusRecorder // optional, enables /metrics
	history  *history.Store              // optional, enriches /healthz
	watch    []string                    // additional paths to watch (config file)
}

// Option configures optional Server collaborators.
type Option func(*Server)

// WithMetricsHandler exposes the recorder's registry at /metrics.
func WithMetricsHandler(r *metrics.PrometheusRecorder) Option {
	return func(s *Server) { s.recorder = r }
}

// WithHistory includes recent builds in the /healthz payload.
func WithHistory(h *history.Store) Option {
	return func(s *Server) { s.history = h }
}

// WithWatchPath watches an additional path (e.g. the config file).
func WithWatchPath(path string) Option {
	return func(s *Server) {
		if path != "" {
			s.watch = append(s.watch, path)
		}
	}
}

// New constructs the dev server around a builder.
func New(cfg *config.Config, builder *build.Builder, opts ...Option) *Server {
	s := &Server{
		cfg:      cfg,
		builder:  builder,
		hub:      NewLiveReloadHub(),
		status:   &buildStatus{},
		debounce: newDebouncer(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run performs the initial build and serves until the context is canceled.
func (s *Server) Run(ctx context.Context) error {
	// Initial build. Failure is not fatal for the server: it starts anyway
	// and reports the error via /healthz while watching for a fix.
	s.rebuild(ctx)

	roots := append([]string{s.cfg.Build.Source, s.cfg.Build.Theme}, s.watch...)
	watcher, err := newWatcher(roots...)
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	stopScheduler, err := s.startScheduler()
	if err != nil {
		return err
	}
	defer stopScheduler()

	go s.rebuildWorker(ctx)

	addr := net.JoinHostPort(s.cfg.Serve.Host, fmt.Sprintf("%d", s.cfg.Serve.Port))
	httpServer := &http.Server{
		Addr:    addr,
		Handler: s.routes(),
		// No write timeout: /livereload connections are long-lived SSE.
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       300 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Dev server listening", logfields.URL("http://"+addr), logfields.Output(s.cfg.Build.Output))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Shutting down dev server")
			s.hub.Shutdown()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		case err := <-errCh:
			return fmt.Errorf("dev server: %w", err)
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			s.handleFileEvent(watcher, ev)
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", logfields.Error(werr))
		}
	}
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/livereload", s.hub)
	mux.HandleFunc("/livereload.js", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
		_, _ = w.Write([]byte(liveReloadScript))
	})
	mux.HandleFunc("/healthz", s.handleHealthz)
	if s.recorder != nil && s.cfg.Metrics.Enabled {
		mux.Handle("/metrics", s.recorder.Handler())
	}
	mux.Handle("/", withLiveReloadScript(http.FileServer(http.Dir(s.cfg.Build.Output))))
	return mux
}

// handleHealthz reports the last build outcome and, when history is wired,
// the most recent builds.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	report, lastErr, hasGood := s.status.snapshot()

	payload := map[string]any{
		"status": "ok",
	}
	if lastErr != nil {
		payload["status"] = "degraded"
		payload["last_error"] = lastErr.Error()
	}
	if !hasGood {
		payload["status"] = "starting"
	}
	if report != nil {
		payload["last_build"] = map[string]any{
			"build_id": report.BuildID,
			"outcome":  string(report.Outcome),
			"pages":    report.Pages,
			"hash":     report.ManifestHash,
			"end":      report.End,
		}
	}
	if s.history != nil {
		if recent, err := s.history.Recent(r.Context(), 5); err == nil {
			payload["recent_builds"] = recent
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) handleFileEvent(watcher *fsnotify.Watcher, ev fsnotify.Event) {
	if shouldIgnoreEvent(ev.Name) {
		return
	}
	if ev.Op.Has(fsnotify.Create) {
		// New directories must join the watch or their files go unseen.
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = addDirsRecursive(watcher, ev.Name)
		}
	}
	slog.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	s.debounce.Trigger()
}

// rebuildWorker serializes rebuilds: while one runs, further requests fold
// into a single pending flag, so a burst of changes costs one extra build at
// most.
func (s *Server) rebuildWorker(ctx context.Context) {
	var mu sync.Mutex
	running := false
	pending := false

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.debounce.req:
			mu.Lock()
			if running {
				pending = true
				mu.Unlock()
				continue
			}
			running = true
			mu.Unlock()

			s.rebuild(ctx)

			mu.Lock()
			running = false
			if pending {
				pending = false
				mu.Unlock()
				s.debounce.Request()
			} else {
				mu.Unlock()
			}
		}
	}
}

// rebuild runs one full build from a fresh site model and notifies browsers
// when the manifest hash changed.
func (s *Server) rebuild(ctx context.Context) {
	report, err := s.builder.Run(ctx)
	s.status.record(report, err)
	if err != nil {
		slog.Warn("Rebuild failed; serving last good output", logfields.Error(err))
		return
	}
	s.hub.Broadcast(report.ManifestHash)
}

// startScheduler wires periodic rebuilds for sources that change
// out-of-band. Returns a stop function.
func (s *Server) startScheduler() (func(), error) {
	interval, err := s.cfg.Serve.RebuildInterval()
	if err != nil {
		return nil, err
	}
	if interval == 0 {
		return func() {}, nil
	}
	return s.schedulePeriodicRebuilds(interval)
}
