package commands

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/build"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/server"
)

// ServeCmd builds the site and serves it with live reload, rebuilding on
// source changes.
type ServeCmd struct {
	SourceFlags

	Host string `help:"Address to bind the dev server to"`
	Port int    `short:"p" help:"Port to listen on"`
	Open bool   `help:"Open the site in the default browser once serving"`
}

func (s *ServeCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root, &s.SourceFlags)
	if err != nil {
		return err
	}
	if s.Host != "" {
		cfg.Serve.Host = s.Host
	}
	if s.Port != 0 {
		cfg.Serve.Port = s.Port
	}
	if s.Open {
		cfg.Serve.Open = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := resolveSource(ctx, cfg, &s.SourceFlags); err != nil {
		return err
	}

	collab := newCollaborators(cfg)
	defer collab.Close()

	buildOpts := collab.opts
	serverOpts := []server.Option{server.WithWatchPath(root.Config)}

	if cfg.Metrics.Enabled {
		recorder := metrics.NewPrometheusRecorder(nil)
		buildOpts = append(buildOpts, build.WithRecorder(recorder))
		serverOpts = append(serverOpts, server.WithMetricsHandler(recorder))
	}
	if collab.history != nil {
		serverOpts = append(serverOpts, server.WithHistory(collab.history))
	}

	srv := server.New(cfg, build.New(cfg, buildOpts...), serverOpts...)

	if cfg.Serve.Open {
		url := "http://" + net.JoinHostPort(cfg.Serve.Host, fmt.Sprintf("%d", cfg.Serve.Port))
		go openBrowser(url)
	}

	return srv.Run(ctx)
}

// openBrowser launches the platform browser after a short delay so the
// listener is up first. Best effort.
func openBrowser(url string) {
	time.Sleep(500 * time.Millisecond)

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		slog.Warn("Failed to open browser", logfields.URL(url), logfields.Error(err))
	}
}
